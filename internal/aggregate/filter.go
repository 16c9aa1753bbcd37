package aggregate

import (
	"sort"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// RecentLimit is the number of transactions the dashboard lists.
const RecentLimit = 5

// TransactionFilter narrows a transaction list. Zero fields match everything.
type TransactionFilter struct {
	Search     string
	Type       model.TransactionType
	CategoryID string
}

// Matches reports whether t passes every set criterion. Search matches the
// category name or note, ignoring case.
func (f TransactionFilter) Matches(t model.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.CategoryID != "" && t.Category.ID != f.CategoryID {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return strings.Contains(strings.ToLower(t.Category.Name), q) ||
			strings.Contains(strings.ToLower(t.Note), q)
	}
	return true
}

// FilterTransactions returns the matching transactions, newest first.
// The input is not modified.
func FilterTransactions(txns []model.Transaction, f TransactionFilter) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders txns by date descending, keeping storage order for ties.
func SortNewestFirst(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
}

// RecentTransactions returns the n newest transactions.
func RecentTransactions(txns []model.Transaction, n int) []model.Transaction {
	out := FilterTransactions(txns, TransactionFilter{})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CategoriesOfType returns the categories offered for a transaction of type t.
func CategoriesOfType(cats []model.Category, t model.TransactionType) []model.Category {
	out := make([]model.Category, 0, len(cats))
	for _, c := range cats {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
