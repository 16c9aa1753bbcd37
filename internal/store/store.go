// Package store persists transactions, categories and goals as JSON documents
// in a key-value medium.
//
// The store never fails its callers: reads that find nothing usable fall back
// to defaults and writes that fail are logged and dropped. LastWriteError
// exposes the most recent dropped write for callers that want to report it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/expense-tracker/internal/storage"
)

// Keys under which each collection is stored.
const (
	TransactionsKey = "expense-tracker-transactions"
	CategoriesKey   = "expense-tracker-categories"
	GoalsKey        = "expense-tracker-goals"
)

// Store reads and writes whole collections through a storage.Medium.
// Mutations are read-modify-write and are not atomic across processes.
type Store struct {
	medium  storage.Medium
	logger  *slog.Logger
	now     func() time.Time
	lastErr error
	mu      sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store over medium.
func New(medium storage.Medium, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LastWriteError returns the error from the most recent failed write, or nil
// if the most recent write succeeded.
func (s *Store) LastWriteError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) recordWrite(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// load decodes the list stored under key, skipping records that do not
// decode as T. ok is false when the key is absent or unreadable, when it does
// not hold a JSON array, or when every record in it was skipped.
func load[T any](ctx context.Context, s *Store, key string) (items []T, ok bool) {
	raw, found, err := s.medium.Read(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read collection", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	items, skipped, err := decodeRecords[T]([]byte(raw))
	if err != nil {
		s.logger.Warn("Ignoring unparsable collection", "key", key, "error", err)
		return nil, false
	}
	for _, rerr := range skipped {
		s.logger.Warn("Skipping unreadable record", "key", key, "index", rerr.Index, "error", rerr.Err)
	}
	if len(items) == 0 && len(skipped) > 0 {
		return nil, false
	}
	return items, true
}

// decodeList requires data to be a JSON array of T; null is rejected and so
// is any record that fails to decode.
func decodeList[T any](data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, errNullList
	}
	return items, nil
}

var errNullList = errors.New("expected a list, got null")

// RecordError is a record that failed to decode, by position in its list.
type RecordError struct {
	Err   error
	Index int
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// decodeRecords decodes each element of a JSON array on its own. err is set
// only when data is not an array; bad elements, null included, come back in
// skipped.
func decodeRecords[T any](data []byte) (items []T, skipped []RecordError, err error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, err
	}
	if raws == nil {
		return nil, nil, errNullList
	}
	items = make([]T, 0, len(raws))
	for i, raw := range raws {
		if isNull(raw) {
			skipped = append(skipped, RecordError{Index: i, Err: errors.New("null record")})
			continue
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			skipped = append(skipped, RecordError{Index: i, Err: err})
			continue
		}
		items = append(items, item)
	}
	return items, skipped, nil
}

// encode serializes v and writes it under key, returning any failure.
func (s *Store) encode(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.medium.Write(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// save is encode with the store's swallow-and-log failure policy.
func save[T any](ctx context.Context, s *Store, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	err := s.encode(ctx, key, items)
	s.recordWrite(err)
	if err != nil {
		s.logger.Error("Failed to save collection", "key", key, "count", len(items), "error", err)
	}
}
