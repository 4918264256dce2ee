package models

// Category is one entry of the catalog category list.
type Category struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

// Product is a generated catalog entry. Products never change after generation.
type Product struct {
	ID           string   `json:"id"`
	SKU          string   `json:"sku"`
	Title        string   `json:"title"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	CategoryCode string   `json:"category_code"`
	Description  string   `json:"description"`
	Unit         string   `json:"unit"`
	Price        Money    `json:"price"`
	Stock        int      `json:"stock"`
	Rating       float64  `json:"rating"`
	ImageURL     string   `json:"image_url"`
	Tags         []string `json:"tags"`
	IsPopular    bool     `json:"is_popular"`
}
