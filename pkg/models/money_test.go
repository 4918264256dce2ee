package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyTimesRounds(t *testing.T) {
	tests := []struct {
		price string
		qty   int
		want  string
	}{
		{"50.00", 2, "100"},
		{"19.99", 3, "59.97"},
		{"0.335", 1, "0.34"},
		{"12.345", 2, "24.69"},
		{"0", 5, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			m := Money{Amount: decimal.RequireFromString(tt.price), Currency: "TRY"}
			got := m.Times(tt.qty)
			assert.True(t, got.Amount.Equal(decimal.RequireFromString(tt.want)), "got %s", got.Amount)
			assert.Equal(t, "TRY", got.Currency)
		})
	}
}

func TestMoneyFormatted(t *testing.T) {
	assert.Equal(t, "100.00 ₺", MoneyFromFloat(100, "TRY").Formatted())
	assert.Equal(t, "0.00 ₺", Zero("TRY").Formatted())
	assert.Equal(t, "19.90 EUR", MoneyFromFloat(19.9, "EUR").Formatted())
}

func TestCartRecalculate(t *testing.T) {
	c := Cart{Currency: "TRY", Items: []CartItem{
		{LineTotal: MoneyFromFloat(10.10, "TRY")},
		{LineTotal: MoneyFromFloat(20.20, "TRY")},
		{LineTotal: MoneyFromFloat(0.01, "TRY")},
	}}
	c.Recalculate()
	assert.True(t, c.Total.Equal(MoneyFromFloat(30.31, "TRY")), "got %s", c.Total)
}

func TestCartClone(t *testing.T) {
	c := Cart{ID: "CART-1", Items: []CartItem{{ProductID: "PRD-1", Quantity: 1}}}
	clone := c.Clone()
	clone.Items[0].Quantity = 5
	assert.Equal(t, 1, c.Items[0].Quantity)
}
