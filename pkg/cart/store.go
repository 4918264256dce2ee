// Package cart keeps shopping carts in memory.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/market/pkg/idgen"
	"github.com/example/market/pkg/models"
	"go.uber.org/zap"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrCartCheckedOut  = errors.New("cart already checked out")
)

// ProductLookup resolves a product id. catalog.Catalog satisfies it.
type ProductLookup interface {
	Lookup(id string) (models.Product, error)
}

// Options configures a Store.
type Options struct {
	Currency string
	// TTL evicts carts not updated for this long. Zero keeps carts forever.
	TTL    time.Duration
	Logger *zap.Logger
	// Now replaces time.Now in tests.
	Now func() time.Time
}

// Store is the set of live carts. Every method returns copies, so callers
// never observe a cart changing underneath them.
type Store struct {
	mu       sync.Mutex
	carts    map[string]*models.Cart
	ids      *idgen.Sequence
	products ProductLookup
	currency string
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewStore(products ProductLookup, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		carts:    make(map[string]*models.Cart),
		ids:      idgen.New("CART"),
		products: products,
		currency: opts.Currency,
		ttl:      opts.TTL,
		now:      opts.Now,
		logger:   opts.Logger.Named("cart"),
	}
}

// Create opens an empty cart.
func (s *Store) Create() models.Cart {
	now := s.now()
	c := &models.Cart{
		ID:        s.ids.Next(),
		Items:     []models.CartItem{},
		Currency:  s.currency,
		Status:    models.CartOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Recalculate()

	s.mu.Lock()
	s.carts[c.ID] = c
	s.mu.Unlock()

	s.logger.Debug("cart created", zap.String("cart_id", c.ID))
	return c.Clone()
}

// AddItem appends a line for productID. A zero quantity counts as one.
// Adding the same product twice yields two lines.
func (s *Store) AddItem(cartID, productID string, quantity int) (models.Cart, error) {
	if quantity < 0 {
		return models.Cart{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if quantity == 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return models.Cart{}, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
	}
	if c.Status == models.CartCheckedOut {
		return models.Cart{}, fmt.Errorf("%w: %s", ErrCartCheckedOut, cartID)
	}

	p, err := s.products.Lookup(productID)
	if err != nil {
		return models.Cart{}, err
	}

	c.Items = append(c.Items, models.CartItem{
		ProductID: p.ID,
		Title:     p.Title,
		ImageURL:  p.ImageURL,
		Quantity:  quantity,
		UnitPrice: p.Price,
		LineTotal: p.Price.Times(quantity),
	})
	c.Recalculate()
	c.UpdatedAt = s.now()

	return c.Clone(), nil
}

func (s *Store) Get(cartID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return models.Cart{}, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
	}
	return c.Clone(), nil
}

// Consume moves an open cart to checked_out and returns its final state.
// Only one caller can consume a given cart.
func (s *Store) Consume(cartID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return models.Cart{}, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
	}
	if c.Status == models.CartCheckedOut {
		return models.Cart{}, fmt.Errorf("%w: %s", ErrCartCheckedOut, cartID)
	}
	c.Status = models.CartCheckedOut
	c.UpdatedAt = s.now()
	return c.Clone(), nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// Sweep removes carts last updated more than TTL before now and returns how
// many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, c := range s.carts {
		if c.UpdatedAt.Before(cutoff) {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done. It returns at once
// when no TTL is configured.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.now()); n > 0 {
				s.logger.Info("expired carts removed", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}
