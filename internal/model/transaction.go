package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Transaction is a single income or expense event.
type Transaction struct {
	Date     time.Time
	ID       string
	Type     TransactionType
	Note     string
	Category Category
	Amount   float64
}

type transactionJSON struct {
	ID       string          `json:"id"`
	Amount   float64         `json:"amount"`
	Type     TransactionType `json:"type"`
	Category Category        `json:"category"`
	Date     string          `json:"date"`
	Note     string          `json:"note,omitempty"`
}

// NewTransactionID returns a time based identifier in decimal milliseconds.
func NewTransactionID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// MarshalJSON writes the date as an ISO-8601 string.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:       t.ID,
		Amount:   t.Amount,
		Type:     t.Type,
		Category: t.Category,
		Date:     FormatTimestamp(t.Date),
		Note:     t.Note,
	})
}

// UnmarshalJSON reconstructs the date from its ISO-8601 string form.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseTimestamp(raw.Date)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", raw.ID, err)
	}
	*t = Transaction{
		ID:       raw.ID,
		Amount:   raw.Amount,
		Type:     raw.Type,
		Category: raw.Category,
		Date:     date,
		Note:     raw.Note,
	}
	return nil
}

// Validate performs the checks an entry form applies before saving.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if !(t.Amount > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, t.Amount)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if strings.TrimSpace(t.Category.ID) == "" {
		return ErrMissingCategory
	}
	if t.Category.Type != t.Type {
		return fmt.Errorf("%w: %s category %q on %s transaction",
			ErrCategoryType, t.Category.Type, t.Category.Name, t.Type)
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// TransactionUpdate is a partial transaction. Nil fields are left unchanged.
type TransactionUpdate struct {
	Amount   *float64
	Type     *TransactionType
	Category *Category
	Date     *time.Time
	Note     *string
}

// IsEmpty reports whether the update changes nothing.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Amount == nil && u.Type == nil && u.Category == nil && u.Date == nil && u.Note == nil
}

// Apply shallow-merges u into t. The ID is never changed.
func (u TransactionUpdate) Apply(t Transaction) Transaction {
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Note != nil {
		t.Note = *u.Note
	}
	return t
}
