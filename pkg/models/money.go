package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places every amount is rounded to.
const MoneyPlaces = 2

// Money is an amount in a single currency, always rounded to two places.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney rounds amount to two places.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount.Round(MoneyPlaces), Currency: currency}
}

// MoneyFromFloat is a convenience for configuration values and fixtures.
func MoneyFromFloat(amount float64, currency string) Money {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// Zero returns an empty amount in currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Times returns round(m * qty, 2).
func (m Money) Times(qty int) Money {
	return NewMoney(m.Amount.Mul(decimal.NewFromInt(int64(qty))), m.Currency)
}

// Add returns round(m + o, 2). The currency of m is kept.
func (m Money) Add(o Money) Money {
	return NewMoney(m.Amount.Add(o.Amount), m.Currency)
}

// Equal compares amount and currency.
func (m Money) Equal(o Money) bool {
	return m.Currency == o.Currency && m.Amount.Equal(o.Amount)
}

// Float is the amount as a JSON-friendly number.
func (m Money) Float() float64 {
	return m.Amount.InexactFloat64()
}

// Formatted renders the amount for display, e.g. "100.00 ₺".
func (m Money) Formatted() string {
	if m.Currency == "TRY" {
		return fmt.Sprintf("%s ₺", m.Amount.StringFixed(MoneyPlaces))
	}
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(MoneyPlaces), m.Currency)
}

func (m Money) String() string {
	return m.Formatted()
}
