// Package catalog generates the synthetic product catalog and answers
// product lookups and searches against it.
package catalog

import (
	"errors"
	"fmt"

	"github.com/example/market/pkg/config"
	"github.com/example/market/pkg/models"
	"golang.org/x/text/cases"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is the read-only product list built at startup. It is safe for
// concurrent use because nothing mutates it after New returns.
type Catalog struct {
	products   []models.Product
	index      map[string]int
	haystacks  []string
	categories []models.Category
}

// New indexes an already generated product list.
func New(products []models.Product, categories []models.Category) *Catalog {
	fold := cases.Fold()
	c := &Catalog{
		products:   products,
		index:      make(map[string]int, len(products)),
		haystacks:  make([]string, len(products)),
		categories: categories,
	}
	for i, p := range products {
		c.index[p.ID] = i
		c.haystacks[i] = fold.String(searchText(p))
	}
	return c
}

// Build generates a catalog from configuration. An empty category list in
// cfg selects the built-in categories.
func Build(cfg config.CatalogConfig) (*Catalog, error) {
	cats := cfg.Categories
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	categories := toCategories(cats)

	products, err := Generate(GenerateOptions{
		TargetCount: cfg.TargetCount,
		Currency:    cfg.Currency,
		Categories:  categories,
	}, NewRand(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("generate catalog: %w", err)
	}

	return New(products, categories), nil
}

// Len is the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns the full list in catalog order. Callers must not modify it.
func (c *Catalog) Products() []models.Product {
	return c.products
}

// Categories returns a copy of the category list.
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Product(id string) (models.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// Lookup is Product with an error for unknown ids.
func (c *Catalog) Lookup(id string) (models.Product, error) {
	p, ok := c.Product(id)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, nil
}

// Search is Filter over the whole catalog using the pre-folded search text.
func (c *Catalog) Search(query string, limit, offset int) ([]models.Product, int) {
	q := normalize(query)
	if q == "" {
		return paginate(c.products, len(c.products), limit, offset)
	}

	matched := make([]models.Product, 0)
	for i, h := range c.haystacks {
		if contains(h, q) {
			matched = append(matched, c.products[i])
		}
	}
	return paginate(matched, len(matched), limit, offset)
}
