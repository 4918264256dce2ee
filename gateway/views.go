package gateway

import (
	"time"

	"github.com/example/market/pkg/models"
	"github.com/example/market/pkg/repository"
)

const addToCartLabel = "Sepete ekle"

type priceView struct {
	Value     float64 `json:"value"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

func newPriceView(m models.Money) priceView {
	return priceView{Value: m.Float(), Currency: m.Currency, Formatted: m.Formatted()}
}

type actionView struct {
	Type      string `json:"type"`
	Label     string `json:"label"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type productCard struct {
	Type         string       `json:"type"`
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Subtitle     string       `json:"subtitle"`
	Category     string       `json:"category"`
	CategoryCode string       `json:"category_code"`
	Description  string       `json:"description"`
	Unit         string       `json:"unit"`
	Price        priceView    `json:"price"`
	ImageURL     string       `json:"image_url"`
	Stock        int          `json:"stock"`
	Rating       float64      `json:"rating"`
	Tags         []string     `json:"tags"`
	IsPopular    bool         `json:"is_popular"`
	Actions      []actionView `json:"actions"`
}

func newProductCard(p models.Product) productCard {
	return productCard{
		Type:         "product",
		ID:           p.ID,
		Title:        p.Title,
		Subtitle:     p.Brand,
		Category:     p.Category,
		CategoryCode: p.CategoryCode,
		Description:  p.Description,
		Unit:         p.Unit,
		Price:        newPriceView(p.Price),
		ImageURL:     p.ImageURL,
		Stock:        p.Stock,
		Rating:       p.Rating,
		Tags:         p.Tags,
		IsPopular:    p.IsPopular,
		Actions: []actionView{
			{Type: "add_to_cart", Label: addToCartLabel, ProductID: p.ID, Quantity: 1},
		},
	}
}

type productList struct {
	Type   string        `json:"type"`
	Query  string        `json:"query"`
	Total  int           `json:"total"`
	Count  int           `json:"count"`
	Page   int           `json:"page"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
	Items  []productCard `json:"items"`
}

// rawProduct is the flat product shape of the v1 listing.
type rawProduct struct {
	ID           string   `json:"id"`
	SKU          string   `json:"sku"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	CategoryCode string   `json:"category_code"`
	Description  string   `json:"description"`
	Unit         string   `json:"unit"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	Stock        int      `json:"stock"`
	Rating       float64  `json:"rating"`
	ImageURL     string   `json:"image_url"`
	Tags         []string `json:"tags"`
	IsPopular    bool     `json:"isPopular"`
}

func newRawProduct(p models.Product) rawProduct {
	return rawProduct{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Title,
		Brand:        p.Brand,
		Category:     p.Category,
		CategoryCode: p.CategoryCode,
		Description:  p.Description,
		Unit:         p.Unit,
		Price:        p.Price.Float(),
		Currency:     p.Price.Currency,
		Stock:        p.Stock,
		Rating:       p.Rating,
		ImageURL:     p.ImageURL,
		Tags:         p.Tags,
		IsPopular:    p.IsPopular,
	}
}

type rawProductPage struct {
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
	Total int          `json:"total"`
	Items []rawProduct `json:"items"`
}

type categoryView struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type categoryList struct {
	Type  string         `json:"type"`
	Count int            `json:"count"`
	Items []categoryView `json:"items"`
}

type cartItemView struct {
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	Quantity  int       `json:"quantity"`
	UnitPrice priceView `json:"unit_price"`
	LineTotal priceView `json:"line_total"`
}

type cartView struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Items  []cartItemView `json:"items"`
	Total  priceView      `json:"total"`
}

func newCartItemViews(items []models.CartItem) []cartItemView {
	out := make([]cartItemView, len(items))
	for i, item := range items {
		out[i] = cartItemView{
			ProductID: item.ProductID,
			Title:     item.Title,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			UnitPrice: newPriceView(item.UnitPrice),
			LineTotal: newPriceView(item.LineTotal),
		}
	}
	return out
}

func newCartView(c models.Cart) cartView {
	return cartView{
		Type:   "cart",
		ID:     c.ID,
		Status: string(c.Status),
		Items:  newCartItemViews(c.Items),
		Total:  newPriceView(c.Total),
	}
}

type deliveryView struct {
	AddressID string `json:"address_id"`
	SlotID    string `json:"slot_id"`
}

type orderConfirmation struct {
	Type          string         `json:"type"`
	OrderID       string         `json:"order_id"`
	CartID        string         `json:"cart_id"`
	Status        string         `json:"status"`
	Items         []cartItemView `json:"items"`
	Total         priceView      `json:"total"`
	Delivery      deliveryView   `json:"delivery"`
	PaymentMethod string         `json:"payment_method"`
	CreatedAt     time.Time      `json:"created_at"`
}

func newOrderConfirmation(o models.Order) orderConfirmation {
	return orderConfirmation{
		Type:          "order_confirmation",
		OrderID:       o.ID,
		CartID:        o.CartID,
		Status:        string(o.Status),
		Items:         newCartItemViews(o.Items),
		Total:         newPriceView(o.Total),
		Delivery:      deliveryView{AddressID: o.AddressID, SlotID: o.SlotID},
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}

type slotView struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Fee   priceView `json:"fee"`
}

type deliverySlots struct {
	Type      string     `json:"type"`
	AddressID string     `json:"address_id"`
	Slots     []slotView `json:"slots"`
}

type historyEntry struct {
	Action    string                 `json:"action"`
	CreatedAt time.Time              `json:"created_at"`
	Data      map[string]interface{} `json:"data"`
}

type orderHistory struct {
	Type    string         `json:"type"`
	OrderID string         `json:"order_id"`
	Events  []historyEntry `json:"events"`
}

func newHistoryEntries(logs []*repository.AuditLog) []historyEntry {
	out := make([]historyEntry, 0, len(logs))
	for _, l := range logs {
		out = append(out, historyEntry{Action: l.Action, CreatedAt: l.CreatedAt, Data: l.Data})
	}
	return out
}
