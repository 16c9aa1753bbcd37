package store

import (
	"context"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// CollectionStatus describes what is stored under one collection key.
type CollectionStatus struct {
	Err     error
	Key     string
	Skipped []RecordError
	Count   int
	Present bool
}

// Healthy reports whether the collection is absent or holds a JSON array.
// A healthy collection may still have skipped records.
func (c CollectionStatus) Healthy() bool {
	return c.Err == nil
}

// Inspect reads every collection without applying fallbacks, so damaged
// documents show up instead of silently reading as empty or default.
func (s *Store) Inspect(ctx context.Context) []CollectionStatus {
	return []CollectionStatus{
		inspect[model.Transaction](ctx, s, TransactionsKey),
		inspect[model.Category](ctx, s, CategoriesKey),
		inspect[model.Goal](ctx, s, GoalsKey),
	}
}

func inspect[T any](ctx context.Context, s *Store, key string) CollectionStatus {
	status := CollectionStatus{Key: key}
	raw, found, err := s.medium.Read(ctx, key)
	if err != nil {
		status.Err = err
		return status
	}
	if !found {
		return status
	}
	status.Present = true
	items, skipped, err := decodeRecords[T]([]byte(raw))
	if err != nil {
		status.Err = err
		return status
	}
	status.Count = len(items)
	status.Skipped = skipped
	return status
}
