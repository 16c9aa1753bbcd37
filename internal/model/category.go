package model

import (
	"fmt"
	"strings"
)

// TransactionType classifies money as flowing in or out.
type TransactionType string

const (
	// TransactionTypeIncome marks money received.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense marks money spent.
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is a member of the closed income/expense set.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// ParseTransactionType converts user input into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Category is a user-visible label for classifying transactions.
// Transactions embed a copy, so edits to a category never rewrite history.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Icon  string          `json:"icon"`
	Color string          `json:"color"`
	Type  TransactionType `json:"type"`
}

// Validate checks that the category can be offered for new transactions.
func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCategory)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if !c.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, c.Type)
	}
	return nil
}
