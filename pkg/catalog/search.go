package catalog

import (
	"strings"

	"github.com/example/market/pkg/models"
	"golang.org/x/text/cases"
)

// DefaultLimit is the page size used when the caller gives none.
const DefaultLimit = 12

// fieldSep keeps a query from matching across two adjacent fields.
const fieldSep = "\x00"

// Filter returns the products whose title, category name or code, brand,
// description or SKU contain query, ignoring case and surrounding space.
// Catalog order is kept. total counts all matches; the returned page is
// matched[offset : offset+limit]. limit <= 0 selects DefaultLimit.
func Filter(products []models.Product, query string, limit, offset int) (page []models.Product, total int) {
	q := normalize(query)
	if q == "" {
		return paginate(products, len(products), limit, offset)
	}

	fold := cases.Fold()
	matched := make([]models.Product, 0)
	for _, p := range products {
		if contains(fold.String(searchText(p)), q) {
			matched = append(matched, p)
		}
	}
	return paginate(matched, len(matched), limit, offset)
}

// Matches reports whether p would be selected by query.
func Matches(p models.Product, query string) bool {
	q := normalize(query)
	return q == "" || contains(cases.Fold().String(searchText(p)), q)
}

func normalize(query string) string {
	return cases.Fold().String(strings.TrimSpace(query))
}

func searchText(p models.Product) string {
	return strings.Join([]string{p.Title, p.Category, p.CategoryCode, p.Brand, p.Description, p.SKU}, fieldSep)
}

func contains(haystack, q string) bool {
	return !strings.Contains(q, fieldSep) && strings.Contains(haystack, q)
}

func paginate(matched []models.Product, total, limit, offset int) ([]models.Product, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []models.Product{}, total
	}
	end := offset + limit
	if end > len(matched) || end < offset {
		end = len(matched)
	}
	page := make([]models.Product, end-offset)
	copy(page, matched[offset:end])
	return page, total
}
