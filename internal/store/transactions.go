package store

import (
	"context"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// GetTransactions returns every stored transaction in storage order.
// A missing or unparsable collection reads as empty.
func (s *Store) GetTransactions(ctx context.Context) []model.Transaction {
	txns, ok := load[model.Transaction](ctx, s, TransactionsKey)
	if !ok {
		return []model.Transaction{}
	}
	return txns
}

// SaveTransactions replaces the stored collection with txns.
func (s *Store) SaveTransactions(ctx context.Context, txns []model.Transaction) {
	save(ctx, s, TransactionsKey, txns)
}

// AddTransaction appends t to the stored collection. Duplicate IDs are not checked.
func (s *Store) AddTransaction(ctx context.Context, t model.Transaction) {
	txns := s.GetTransactions(ctx)
	s.SaveTransactions(ctx, append(txns, t))
}

// UpdateTransaction merges update into the first transaction with id.
// It reports whether a transaction was found; nothing is written otherwise.
func (s *Store) UpdateTransaction(ctx context.Context, id string, update model.TransactionUpdate) bool {
	txns := s.GetTransactions(ctx)
	for i := range txns {
		if txns[i].ID == id {
			txns[i] = update.Apply(txns[i])
			s.SaveTransactions(ctx, txns)
			return true
		}
	}
	s.logger.Debug("Transaction not found for update", "id", id)
	return false
}

// DeleteTransaction removes every transaction with id.
func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	txns := s.GetTransactions(ctx)
	kept := txns[:0]
	for _, t := range txns {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.SaveTransactions(ctx, kept)
}

// FindTransaction returns the first transaction with id.
func FindTransaction(txns []model.Transaction, id string) (model.Transaction, bool) {
	for _, t := range txns {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}
