package models

import (
	"time"
)

type OrderStatus string

// OrderCreated is the only status an order ever has.
const OrderCreated OrderStatus = "created"

// Order is an immutable snapshot of a cart taken at checkout.
type Order struct {
	ID            string      `json:"id"`
	CartID        string      `json:"cart_id"`
	AddressID     string      `json:"address_id"`
	SlotID        string      `json:"slot_id"`
	PaymentMethod string      `json:"payment_method"`
	Items         []CartItem  `json:"items"`
	Total         Money       `json:"total"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}
