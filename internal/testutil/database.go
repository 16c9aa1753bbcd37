// Package testutil provides stores, media and fixtures shared by the expense tests.
package testutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/storage"
	"github.com/Veraticus/expense-tracker/internal/store"
)

// FixedNow is the clock every test store uses unless overridden.
var FixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// QuietLogger discards everything; the store logs every swallowed error.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewStore returns a store over a fresh in-memory medium.
func NewStore(t *testing.T) (*store.Store, *storage.MemoryStorage) {
	t.Helper()
	medium := storage.NewMemoryStorage()
	return store.New(medium, store.WithLogger(QuietLogger()), store.WithClock(func() time.Time { return FixedNow })), medium
}

// NewSQLiteStore returns a store over a migrated SQLite database in a temp dir.
// The database is closed when the test ends.
func NewSQLiteStore(t *testing.T) (*store.Store, *storage.SQLiteStorage) {
	t.Helper()

	medium, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "expense.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = medium.Close()
	})

	if err := medium.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return store.New(medium, store.WithLogger(QuietLogger()), store.WithClock(func() time.Time { return FixedNow })), medium
}

// ErrMediumDown is returned by FailingMedium.
var ErrMediumDown = errors.New("medium unavailable")

// FailingMedium wraps a Medium and fails selected operations on demand.
type FailingMedium struct {
	storage.Medium
	failWrites map[string]bool
	failReads  bool
	mu         sync.Mutex
}

// NewFailingMedium wraps inner. Nothing fails until configured.
func NewFailingMedium(inner storage.Medium) *FailingMedium {
	return &FailingMedium{Medium: inner, failWrites: make(map[string]bool)}
}

// FailWrites makes writes to the given keys fail. With no keys every write fails.
func (f *FailingMedium) FailWrites(keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(keys) == 0 {
		f.failWrites["*"] = true
		return
	}
	for _, k := range keys {
		f.failWrites[k] = true
	}
}

// FailReads makes every read fail.
func (f *FailingMedium) FailReads() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReads = true
}

// Read implements storage.Medium.
func (f *FailingMedium) Read(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	fail := f.failReads
	f.mu.Unlock()
	if fail {
		return "", false, ErrMediumDown
	}
	return f.Medium.Read(ctx, key)
}

// Write implements storage.Medium.
func (f *FailingMedium) Write(ctx context.Context, key, value string) error {
	f.mu.Lock()
	fail := f.failWrites["*"] || f.failWrites[key]
	f.mu.Unlock()
	if fail {
		return ErrMediumDown
	}
	return f.Medium.Write(ctx, key, value)
}
