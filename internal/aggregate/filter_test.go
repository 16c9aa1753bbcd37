package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
	"github.com/Veraticus/expense-tracker/internal/testutil"
)

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		testutil.NewTransaction("1").Expense(12).In("5").On(2024, 3, 1).Note("Groceries").Build(),
		testutil.NewTransaction("2").Income(3000).In("1").On(2024, 3, 5).Note("March pay").Build(),
		testutil.NewTransaction("3").Expense(40).In("6").On(2024, 3, 3).Build(),
		testutil.NewTransaction("4").Expense(8).In("5").On(2024, 3, 5).Note("coffee").Build(),
		testutil.NewTransaction("5").Expense(60).In("7").On(2024, 2, 20).Build(),
		testutil.NewTransaction("6").Expense(9).In("8").On(2024, 3, 9).Build(),
	}
}

func idsOf(txns []model.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTransactions(t *testing.T) {
	tests := []struct {
		name   string
		filter TransactionFilter
		want   []string
	}{
		{name: "no filter sorts newest first, ties keep order", filter: TransactionFilter{}, want: []string{"6", "2", "4", "3", "1", "5"}},
		{name: "search note ignoring case", filter: TransactionFilter{Search: "COFFEE"}, want: []string{"4"}},
		{name: "search category name", filter: TransactionFilter{Search: "food"}, want: []string{"4", "1"}},
		{name: "type", filter: TransactionFilter{Type: model.TransactionTypeIncome}, want: []string{"2"}},
		{name: "category", filter: TransactionFilter{CategoryID: "5"}, want: []string{"4", "1"}},
		{name: "combined", filter: TransactionFilter{Search: "groc", Type: model.TransactionTypeExpense, CategoryID: "5"}, want: []string{"1"}},
		{name: "nothing matches", filter: TransactionFilter{Search: "rent"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idsOf(FilterTransactions(sampleTransactions(), tt.filter)))
		})
	}
}

func TestFilterTransactions_DoesNotMutateInput(t *testing.T) {
	txns := sampleTransactions()
	_ = FilterTransactions(txns, TransactionFilter{})
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, idsOf(txns))
}

func TestRecentTransactions(t *testing.T) {
	assert.Equal(t, []string{"6", "2", "4", "3", "1"}, idsOf(RecentTransactions(sampleTransactions(), RecentLimit)))
	assert.Len(t, RecentTransactions(sampleTransactions()[:2], RecentLimit), 2)
	assert.Empty(t, RecentTransactions(nil, RecentLimit))
}

func TestCategoriesOfType(t *testing.T) {
	cats := store.DefaultCategories()

	income := CategoriesOfType(cats, model.TransactionTypeIncome)
	expense := CategoriesOfType(cats, model.TransactionTypeExpense)

	assert.Len(t, income, 4)
	assert.Len(t, expense, 7)
	for _, c := range income {
		assert.Equal(t, model.TransactionTypeIncome, c.Type)
	}
}
