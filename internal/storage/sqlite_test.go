package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T, opts ...Option) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// media returns every Medium implementation under a common name.
func media(t *testing.T, opts ...Option) map[string]Medium {
	t.Helper()
	return map[string]Medium{
		"sqlite": createTestStorage(t, opts...),
		"memory": NewMemoryStorage(opts...),
	}
}

func TestMedium_ReadWriteRemove(t *testing.T) {
	for name, m := range media(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := m.Read(ctx, "expense-tracker-transactions")
			require.NoError(t, err)
			assert.False(t, ok, "fresh medium must report absent keys")

			require.NoError(t, m.Write(ctx, "expense-tracker-transactions", `[]`))
			require.NoError(t, m.Write(ctx, "expense-tracker-transactions", `[{"id":"1"}]`))

			v, ok, err := m.Read(ctx, "expense-tracker-transactions")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, v)

			require.NoError(t, m.Remove(ctx, "expense-tracker-transactions"))
			require.NoError(t, m.Remove(ctx, "never-written"))

			_, ok, err = m.Read(ctx, "expense-tracker-transactions")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMedium_EmptyValueIsPresent(t *testing.T) {
	for name, m := range media(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, m.Write(ctx, "k", ""))
			v, ok, err := m.Read(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestMedium_Quota(t *testing.T) {
	for name, m := range media(t, WithQuota(16)) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, m.Write(ctx, "k", "small"))

			err := m.Write(ctx, "k", strings.Repeat("x", 17))
			assert.ErrorIs(t, err, ErrQuotaExceeded)

			v, _, err := m.Read(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "small", v, "rejected write must not replace the stored value")
		})
	}
}

func TestMedium_RejectsBadArguments(t *testing.T) {
	for name, m := range media(t) {
		t.Run(name, func(t *testing.T) {
			//nolint:staticcheck // testing nil context handling
			_, _, err := m.Read(nil, "k")
			assert.ErrorIs(t, err, ErrNilContext)

			err = m.Write(context.Background(), "  ", "v")
			assert.ErrorIs(t, err, ErrEmptyString)
		})
	}
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "expense.db")

	first, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Migrate(ctx))
	require.NoError(t, first.Write(ctx, "expense-tracker-goals", `[]`))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()
	require.NoError(t, second.Migrate(ctx))

	v, ok, err := second.Read(ctx, "expense-tracker-goals")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
	assert.Equal(t, dbPath, second.Path())
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	sqlite := createTestStorage(t)
	memory := NewMemoryStorage()

	for _, m := range []interface {
		Medium
		Keys(context.Context) ([]string, error)
	}{sqlite, memory} {
		require.NoError(t, m.Write(ctx, "b", "2"))
		require.NoError(t, m.Write(ctx, "a", "1"))
		keys, err := m.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, keys)
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}
