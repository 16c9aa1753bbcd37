package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-tracker/internal/testutil"
)

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		want   string
		amount float64
	}{
		{name: "dollars", code: "USD", amount: 1234.5, want: "$1,234.50"},
		{name: "zero", code: "USD", amount: 0, want: "$0.00"},
		{name: "negative", code: "USD", amount: -12, want: "-$12.00"},
		{name: "default currency", code: "", amount: 3, want: "$3.00"},
		{name: "lowercase code", code: "eur", amount: 99.99, want: "€99.99"},
		{name: "yen has no minor unit", code: "JPY", amount: 1500, want: "¥1,500"},
		{name: "unknown symbol uses code", code: "SEK", amount: 10, want: "SEK 10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Format(tt.amount))
		})
	}
}

func TestNewMoney_Invalid(t *testing.T) {
	_, err := NewMoney("DOLLARS")
	assert.Error(t, err)
	assert.Panics(t, func() { MustMoney("??") })
}

func TestMoney_Signed(t *testing.T) {
	m := MustMoney("USD")
	assert.Equal(t, "+$100.00", m.Signed(testutil.NewTransaction("1").Income(100).Build()))
	assert.Equal(t, "-$4.25", m.Signed(testutil.NewTransaction("2").Expense(4.25).Build()))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "£5.00", FormatMoney(5, "GBP"))
	assert.Equal(t, "$5.00", FormatMoney(5, "not-a-code"))
}
