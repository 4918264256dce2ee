package catalog

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/example/market/pkg/idgen"
	"github.com/example/market/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	minStock        = 5
	stockSpread     = 120
	popularCutoff   = 0.85
	minRating       = 3.0
	ratingSpread    = 2.0
	extraBrand      = "Migros"
	extraUnit       = "adet"
	extraRating     = 4.1
	extraStockLimit = 100
)

var ErrInvalidOptions = errors.New("invalid catalog options")

// GenerateOptions drives Generate. Categories must be non-empty.
type GenerateOptions struct {
	TargetCount int
	Currency    string
	Categories  []models.Category
}

// NewRand returns the deterministic source used for generation.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds exactly opts.TargetCount products with ids PRD-1..PRD-n.
// Each category contributes up to ceil(target/len(categories)) products in
// list order; any shortfall is topped up with extra products in random
// categories.
func Generate(opts GenerateOptions, rng *rand.Rand) ([]models.Product, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	target := opts.TargetCount
	perCategory := (target + len(opts.Categories) - 1) / len(opts.Categories)
	products := make([]models.Product, 0, target)

	for _, cat := range opts.Categories {
		for i := 0; i < perCategory && len(products) < target; i++ {
			n := len(products) + 1
			products = append(products, newProduct(cat, n, i+1, opts.Currency, rng))
		}
		if len(products) >= target {
			break
		}
	}

	return topUp(products, target, opts, rng), nil
}

func (o GenerateOptions) validate() error {
	if o.TargetCount <= 0 {
		return fmt.Errorf("%w: target count must be positive, got %d", ErrInvalidOptions, o.TargetCount)
	}
	if len(o.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidOptions)
	}
	if o.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidOptions)
	}
	for _, c := range o.Categories {
		if c.MinPrice < 0 || c.MinPrice > c.MaxPrice {
			return fmt.Errorf("%w: category %q has price range [%v, %v]", ErrInvalidOptions, c.Code, c.MinPrice, c.MaxPrice)
		}
	}
	return nil
}

func newProduct(cat models.Category, n, ordinal int, currency string, rng *rand.Rand) models.Product {
	brand := pick(rng, brands)
	unit := pick(rng, units)

	image := fmt.Sprintf("https://picsum.photos/seed/%s-%d/600/400", cat.Code, n)
	if pool, ok := categoryImages[cat.Code]; ok {
		image = pick(rng, pool)
	}

	return models.Product{
		ID:           idgen.Format("PRD", uint64(n)),
		SKU:          fmt.Sprintf("SKU-%s-%d", cat.Code, n),
		Title:        fmt.Sprintf("%s · %s %d", cat.Name, brand, ordinal),
		Brand:        brand,
		Category:     cat.Name,
		CategoryCode: cat.Code,
		Description:  fmt.Sprintf("%s kategorisinde, günlük siparişler için ürün. Birim: %s.", cat.Name, unit),
		Unit:         unit,
		Price:        randomPrice(cat, currency, rng),
		Stock:        minStock + rng.IntN(stockSpread),
		Rating:       math.Round((minRating+rng.Float64()*ratingSpread)*10) / 10,
		ImageURL:     image,
		Tags:         []string{cat.Code, strings.ToLower(brand), unit},
		IsPopular:    rng.Float64() > popularCutoff,
	}
}

// topUp appends extra products until target is reached. With the ceiling
// split above this only fires when categories yield less than asked.
func topUp(products []models.Product, target int, opts GenerateOptions, rng *rand.Rand) []models.Product {
	for len(products) < target {
		cat := opts.Categories[rng.IntN(len(opts.Categories))]
		n := len(products) + 1
		products = append(products, models.Product{
			ID:           idgen.Format("PRD", uint64(n)),
			SKU:          fmt.Sprintf("SKU-%s-%d", cat.Code, n),
			Title:        fmt.Sprintf("%s · Extra %d", cat.Name, n),
			Brand:        extraBrand,
			Category:     cat.Name,
			CategoryCode: cat.Code,
			Description:  fmt.Sprintf("%s kategorisinde ek ürün.", cat.Name),
			Unit:         extraUnit,
			Price:        randomPrice(cat, opts.Currency, rng),
			Stock:        1 + rng.IntN(extraStockLimit),
			Rating:       extraRating,
			ImageURL:     fmt.Sprintf("https://picsum.photos/seed/extra-%d/600/400", n),
			Tags:         []string{cat.Code},
		})
	}
	return products
}

// randomPrice is uniform in [min, max], rounded to two places and kept
// inside the range when the bounds themselves carry more precision.
func randomPrice(cat models.Category, currency string, rng *rand.Rand) models.Money {
	lo := decimal.NewFromFloat(cat.MinPrice)
	hi := decimal.NewFromFloat(cat.MaxPrice)
	price := decimal.NewFromFloat(cat.MinPrice + rng.Float64()*(cat.MaxPrice-cat.MinPrice)).Round(models.MoneyPlaces)
	if price.LessThan(lo) {
		price = lo.RoundCeil(models.MoneyPlaces)
	}
	if price.GreaterThan(hi) {
		price = hi.RoundFloor(models.MoneyPlaces)
	}
	return models.Money{Amount: price, Currency: currency}
}

func pick[T any](rng *rand.Rand, pool []T) T {
	return pool[rng.IntN(len(pool))]
}
