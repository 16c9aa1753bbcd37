package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage keeps values in process memory. Useful for tests and throwaway sessions.
type MemoryStorage struct {
	values map[string]string
	opts   options
	mu     sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory medium.
func NewMemoryStorage(opts ...Option) *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string]string),
		opts:   buildOptions(opts),
	}
}

// Read implements Medium.
func (m *MemoryStorage) Read(ctx context.Context, key string) (string, bool, error) {
	if err := validateAccess(ctx, key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Write implements Medium.
func (m *MemoryStorage) Write(ctx context.Context, key, value string) error {
	if err := validateAccess(ctx, key); err != nil {
		return err
	}
	if err := validateQuota(key, value, m.opts.quota); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove implements Medium.
func (m *MemoryStorage) Remove(ctx context.Context, key string) error {
	if err := validateAccess(ctx, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Keys lists stored keys in sorted order.
func (m *MemoryStorage) Keys(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
