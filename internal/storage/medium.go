// Package storage provides the key-value media the expense store persists into.
package storage

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned when a value is larger than the medium allows.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Medium is a string keyed, string valued persistent store.
type Medium interface {
	// Read returns the value stored under key. ok is false when nothing is stored.
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	// Write replaces the value stored under key.
	Write(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Option configures a medium.
type Option func(*options)

type options struct {
	quota int
}

// WithQuota limits the size in bytes of any single stored value. Zero means unlimited.
func WithQuota(bytes int) Option {
	return func(o *options) {
		o.quota = bytes
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
