package models

import (
	"time"
)

type CartStatus string

const (
	CartOpen       CartStatus = "open"
	CartCheckedOut CartStatus = "checked_out"
)

// CartItem is one line of a cart. Title and ImageURL are copied from the
// product when the line is added.
type CartItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
	LineTotal Money  `json:"line_total"`
}

type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Total     Money      `json:"total"`
	Currency  string     `json:"currency"`
	Status    CartStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Recalculate sets Total to the rounded sum of the line totals.
func (c *Cart) Recalculate() {
	total := Zero(c.Currency)
	for _, item := range c.Items {
		total = total.Add(item.LineTotal)
	}
	c.Total = total
}

// Clone returns a copy that shares no item storage with c.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}
