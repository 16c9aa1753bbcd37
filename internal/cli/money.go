package cli

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// DefaultCurrency is used when no display currency is configured.
const DefaultCurrency = "USD"

var symbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"CHF": "CHF ",
}

// Money formats amounts in one currency with English digit grouping.
type Money struct {
	printer *message.Printer
	symbol  string
	scale   int
}

// NewMoney returns a formatter for an ISO 4217 currency code.
func NewMoney(code string) (*Money, error) {
	if strings.TrimSpace(code) == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("unknown currency %q: %w", code, err)
	}

	scale, _ := currency.Standard.Rounding(unit)
	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}

	return &Money{
		printer: message.NewPrinter(language.English),
		symbol:  symbol,
		scale:   scale,
	}, nil
}

// MustMoney is NewMoney for known-good codes.
func MustMoney(code string) *Money {
	m, err := NewMoney(code)
	if err != nil {
		panic(err)
	}
	return m
}

// Format renders amount, for example "$1,234.50" or "-$12.00".
func (m *Money) Format(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + m.symbol + m.printer.Sprint(number.Decimal(amount, number.Scale(m.scale)))
}

// Signed renders a transaction amount with + for income and - for expense.
func (m *Money) Signed(t model.Transaction) string {
	if t.Type == model.TransactionTypeIncome {
		return "+" + m.Format(t.Amount)
	}
	return "-" + m.Format(t.Amount)
}

// FormatMoney formats amount in the currency code, using USD for unknown codes.
func FormatMoney(amount float64, code string) string {
	m, err := NewMoney(code)
	if err != nil {
		m = MustMoney(DefaultCurrency)
	}
	return m.Format(amount)
}
