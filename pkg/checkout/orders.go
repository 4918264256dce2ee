package checkout

import (
	"fmt"
	"sync"

	"github.com/example/market/pkg/models"
)

// OrderStore holds every order created since startup.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]models.Order)}
}

func (s *OrderStore) Save(o models.Order) {
	s.mu.Lock()
	s.orders[o.ID] = cloneOrder(o)
	s.mu.Unlock()
}

func (s *OrderStore) Get(id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return cloneOrder(o), nil
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func cloneOrder(o models.Order) models.Order {
	items := make([]models.CartItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
