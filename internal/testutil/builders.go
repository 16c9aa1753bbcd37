package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/store"
)

// Category returns the seed category with id, panicking on unknown ids.
func Category(id string) model.Category {
	c, ok := store.FindCategory(store.DefaultCategories(), id)
	if !ok {
		panic(fmt.Sprintf("testutil: no seed category %q", id))
	}
	return c
}

// TransactionBuilder builds transactions fluently.
//
//	txn := testutil.NewTransaction("1").Expense(12.5).In("5").On(2024, 3, 10).Build()
type TransactionBuilder struct {
	txn model.Transaction
}

// NewTransaction starts an expense of 1 in "Other Expense" on FixedNow.
func NewTransaction(id string) *TransactionBuilder {
	return &TransactionBuilder{txn: model.Transaction{
		ID:       id,
		Amount:   1,
		Type:     model.TransactionTypeExpense,
		Category: Category(store.OtherExpenseCategoryID),
		Date:     FixedNow,
	}}
}

// Expense sets the type to expense with amount.
func (b *TransactionBuilder) Expense(amount float64) *TransactionBuilder {
	b.txn.Type = model.TransactionTypeExpense
	b.txn.Amount = amount
	if b.txn.Category.Type != model.TransactionTypeExpense {
		b.txn.Category = Category(store.OtherExpenseCategoryID)
	}
	return b
}

// Income sets the type to income with amount.
func (b *TransactionBuilder) Income(amount float64) *TransactionBuilder {
	b.txn.Type = model.TransactionTypeIncome
	b.txn.Amount = amount
	if b.txn.Category.Type != model.TransactionTypeIncome {
		b.txn.Category = Category(store.OtherIncomeCategoryID)
	}
	return b
}

// In sets the category to the seed category with id.
func (b *TransactionBuilder) In(categoryID string) *TransactionBuilder {
	b.txn.Category = Category(categoryID)
	return b
}

// On sets the date to midnight UTC of the given day.
func (b *TransactionBuilder) On(year int, month time.Month, day int) *TransactionBuilder {
	b.txn.Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return b
}

// At sets an exact timestamp.
func (b *TransactionBuilder) At(t time.Time) *TransactionBuilder {
	b.txn.Date = t
	return b
}

// Note sets the note.
func (b *TransactionBuilder) Note(note string) *TransactionBuilder {
	b.txn.Note = note
	return b
}

// Build returns the transaction.
func (b *TransactionBuilder) Build() model.Transaction {
	return b.txn
}

// MonthlyGoal returns a monthly goal for March 2024 (the FixedNow month).
func MonthlyGoal(id string, target float64, categoryID string) model.Goal {
	start, end := model.GoalPeriodMonthly.Window(FixedNow)
	return model.Goal{
		ID:           id,
		Name:         "Goal " + id,
		TargetAmount: target,
		CategoryID:   categoryID,
		Period:       model.GoalPeriodMonthly,
		StartDate:    start,
		EndDate:      end,
	}
}
