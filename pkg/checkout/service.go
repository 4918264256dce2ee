// Package checkout turns carts into orders.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/example/market/pkg/idgen"
	"github.com/example/market/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("order not found")

// EventOrderCreated is the audit action recorded for every checkout.
const EventOrderCreated = "order_created"

// Carts is the part of the cart store checkout needs.
type Carts interface {
	Get(cartID string) (models.Cart, error)
	Consume(cartID string) (models.Cart, error)
}

// OrderMirror keeps a copy of orders outside the process, e.g. in Redis.
// Order ids restart at ORDER-1 on every boot, so entries are scoped by the
// instance that created them.
type OrderMirror interface {
	CacheOrder(ctx context.Context, instance string, order *models.Order) error
	GetOrderCache(ctx context.Context, instance, orderID string) (*models.Order, error)
}

// Event describes something that happened to an entity. Instance names the
// service boot that produced it.
type Event struct {
	Instance string
	Action   string
	EntityID string
	Data     map[string]interface{}
}

// Publisher accepts events for asynchronous delivery.
type Publisher interface {
	Publish(ev Event)
}

type Request struct {
	CartID        string `json:"cart_id"`
	AddressID     string `json:"address_id"`
	SlotID        string `json:"slot_id"`
	PaymentMethod string `json:"payment_method"`
}

type Options struct {
	// Instance identifies this boot in the mirror and the audit log.
	// A random one is generated when empty.
	Instance    string
	// ConsumeCart closes the cart on checkout so it cannot be ordered twice.
	ConsumeCart bool
	Mirror      OrderMirror
	Publisher   Publisher
	Logger      *zap.Logger
	Now         func() time.Time
}

type Service struct {
	instance string
	carts    Carts
	orders   *OrderStore
	ids      *idgen.Sequence
	consume  bool
	mirror   OrderMirror
	events   Publisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(carts Carts, orders *OrderStore, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Instance == "" {
		opts.Instance = uuid.NewString()
	}
	return &Service{
		instance: opts.Instance,
		carts:    carts,
		orders:   orders,
		ids:      idgen.New("ORDER"),
		consume:  opts.ConsumeCart,
		mirror:   opts.Mirror,
		events:   opts.Publisher,
		logger:   opts.Logger.Named("checkout"),
		now:      opts.Now,
	}
}

// Checkout creates an order from the current contents of req.CartID.
// Address, slot and payment method are recorded as given.
func (s *Service) Checkout(ctx context.Context, req Request) (models.Order, error) {
	var (
		c   models.Cart
		err error
	)
	if s.consume {
		c, err = s.carts.Consume(req.CartID)
	} else {
		c, err = s.carts.Get(req.CartID)
	}
	if err != nil {
		return models.Order{}, err
	}

	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)

	order := models.Order{
		ID:            s.ids.Next(),
		CartID:        c.ID,
		AddressID:     req.AddressID,
		SlotID:        req.SlotID,
		PaymentMethod: req.PaymentMethod,
		Items:         items,
		Total:         c.Total,
		Status:        models.OrderCreated,
		CreatedAt:     s.now(),
	}
	s.orders.Save(order)

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("cart_id", order.CartID),
		zap.String("total", order.Total.Formatted()),
		zap.Int("item_count", len(order.Items)))

	if s.mirror != nil {
		if err := s.mirror.CacheOrder(ctx, s.instance, &order); err != nil {
			s.logger.Warn("order mirror failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if s.events != nil {
		s.events.Publish(Event{
			Instance: s.instance,
			Action:   EventOrderCreated,
			EntityID: order.ID,
			Data: map[string]interface{}{
				"cart_id":        order.CartID,
				"address_id":     order.AddressID,
				"slot_id":        order.SlotID,
				"payment_method": order.PaymentMethod,
				"total":          order.Total.Amount.StringFixed(models.MoneyPlaces),
				"currency":       order.Total.Currency,
				"item_count":     len(order.Items),
			},
		})
	}

	return cloneOrder(order), nil
}

// Instance is the id under which this service mirrors and audits orders.
func (s *Service) Instance() string {
	return s.instance
}

// Order returns a previously created order, falling back to this
// instance's entries in the mirror.
func (s *Service) Order(ctx context.Context, id string) (models.Order, error) {
	o, err := s.orders.Get(id)
	if err == nil || s.mirror == nil {
		return o, err
	}

	cached, mirrorErr := s.mirror.GetOrderCache(ctx, s.instance, id)
	if mirrorErr != nil || cached == nil {
		if mirrorErr != nil {
			s.logger.Debug("order mirror miss", zap.String("order_id", id), zap.Error(mirrorErr))
		}
		return models.Order{}, err
	}
	return *cached, nil
}
