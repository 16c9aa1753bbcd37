// Package aggregate derives balances, goal progress and list views from
// transactions already in memory. Every function is pure.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// ComputeBalance totals income and expenses. Sums are exact decimals, so the
// result does not depend on the order of txns.
func ComputeBalance(txns []model.Transaction) model.Balance {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txns {
		switch t.Type {
		case model.TransactionTypeIncome:
			income = income.Add(decimal.NewFromFloat(t.Amount))
		case model.TransactionTypeExpense:
			expenses = expenses.Add(decimal.NewFromFloat(t.Amount))
		}
	}

	totalIncome := income.InexactFloat64()
	totalExpenses := expenses.InexactFloat64()
	return model.Balance{
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetBalance:    totalIncome - totalExpenses,
	}
}

// CategoryTotal is the sum of one category's transactions of one type.
type CategoryTotal struct {
	Category model.Category
	Type     model.TransactionType
	Total    decimal.Decimal
	Count    int
}

// SummarizeByCategory groups txns by type and category ID, largest total first.
// The category snapshot of the first transaction seen names the group.
func SummarizeByCategory(txns []model.Transaction) []CategoryTotal {
	type groupKey struct {
		typ model.TransactionType
		id  string
	}

	index := make(map[groupKey]int)
	var totals []CategoryTotal
	for _, t := range txns {
		k := groupKey{typ: t.Type, id: t.Category.ID}
		i, ok := index[k]
		if !ok {
			i = len(totals)
			index[k] = i
			totals = append(totals, CategoryTotal{Category: t.Category, Type: t.Type})
		}
		totals[i].Total = totals[i].Total.Add(decimal.NewFromFloat(t.Amount))
		totals[i].Count++
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Type != totals[j].Type {
			return totals[i].Type == model.TransactionTypeIncome
		}
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Category.Name < totals[j].Category.Name
	})
	return totals
}
