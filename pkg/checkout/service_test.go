package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/market/pkg/cart"
	"github.com/example/market/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedProducts struct{}

func (fixedProducts) Lookup(id string) (models.Product, error) {
	if id != "PRD-1" {
		return models.Product{}, errors.New("product not found")
	}
	return models.Product{ID: "PRD-1", Title: "Süt", Price: models.MoneyFromFloat(50, "TRY")}, nil
}

type fakeMirror struct {
	mu     sync.Mutex
	orders map[string]models.Order
	err    error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{orders: make(map[string]models.Order)}
}

func (m *fakeMirror) CacheOrder(_ context.Context, instance string, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.orders[instance+"/"+o.ID] = *o
	return nil
}

func (m *fakeMirror) GetOrderCache(_ context.Context, instance, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[instance+"/"+id]
	if !ok {
		return nil, errors.New("redis: nil")
	}
	return &o, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(ev Event) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T, opts Options) (*Service, *cart.Store, string) {
	t.Helper()
	carts := cart.NewStore(fixedProducts{}, cart.Options{Currency: "TRY"})
	c := carts.Create()
	_, err := carts.AddItem(c.ID, "PRD-1", 2)
	require.NoError(t, err)

	opts.Now = func() time.Time { return fixedNow }
	return NewService(carts, NewOrderStore(), opts), carts, c.ID
}

func checkoutRequest(cartID string) Request {
	return Request{CartID: cartID, AddressID: "addr-1", SlotID: "slot-tomorrow", PaymentMethod: "card"}
}

func TestCheckout(t *testing.T) {
	svc, _, cartID := setup(t, Options{})

	order, err := svc.Checkout(context.Background(), checkoutRequest(cartID))
	require.NoError(t, err)

	assert.Equal(t, "ORDER-1", order.ID)
	assert.Equal(t, cartID, order.CartID)
	assert.Equal(t, models.OrderCreated, order.Status)
	assert.True(t, order.Total.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "TRY", order.Total.Currency)
	assert.Equal(t, "addr-1", order.AddressID)
	assert.Equal(t, "slot-tomorrow", order.SlotID)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.Equal(t, fixedNow, order.CreatedAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	stored, err := svc.Order(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, stored)
}

func TestCheckoutUnknownCart(t *testing.T) {
	svc, _, _ := setup(t, Options{})

	_, err := svc.Checkout(context.Background(), checkoutRequest("CART-999"))
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	order, err := svc.Checkout(context.Background(), checkoutRequest("CART-1"))
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", order.ID, "failed checkouts must not use up order ids")
}

func TestCheckoutLeavesCartOpen(t *testing.T) {
	svc, carts, cartID := setup(t, Options{})

	first, err := svc.Checkout(context.Background(), checkoutRequest(cartID))
	require.NoError(t, err)

	c, err := carts.Get(cartID)
	require.NoError(t, err)
	assert.Equal(t, models.CartOpen, c.Status)
	assert.Len(t, c.Items, 1)

	_, err = carts.AddItem(cartID, "PRD-1", 1)
	require.NoError(t, err)

	second, err := svc.Checkout(context.Background(), checkoutRequest(cartID))
	require.NoError(t, err)
	assert.Equal(t, "ORDER-2", second.ID)
	assert.True(t, second.Total.Amount.Equal(decimal.NewFromInt(150)))

	again, err := svc.Order(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, again.Total.Amount.Equal(decimal.NewFromInt(100)), "orders are snapshots")
	assert.Len(t, again.Items, 1)
}

func TestCheckoutConsumesCart(t *testing.T) {
	svc, carts, cartID := setup(t, Options{ConsumeCart: true})

	_, err := svc.Checkout(context.Background(), checkoutRequest(cartID))
	require.NoError(t, err)

	c, err := carts.Get(cartID)
	require.NoError(t, err)
	assert.Equal(t, models.CartCheckedOut, c.Status)

	_, err = svc.Checkout(context.Background(), checkoutRequest(cartID))
	assert.ErrorIs(t, err, cart.ErrCartCheckedOut)
	assert.Equal(t, 1, svc.orders.Len())
}

func TestConcurrentCheckoutConsumesOnce(t *testing.T) {
	svc, _, cartID := setup(t, Options{ConsumeCart: true})

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Checkout(context.Background(), checkoutRequest(cartID))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, cart.ErrCartCheckedOut)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}

func TestCheckoutMirrorsAndPublishes(t *testing.T) {
	mirror := newFakeMirror()
	events := &recordingPublisher{}
	svc, _, cartID := setup(t, Options{Mirror: mirror, Publisher: events})

	order, err := svc.Checkout(context.Background(), checkoutRequest(cartID))
	require.NoError(t, err)

	cached, err := mirror.GetOrderCache(context.Background(), svc.Instance(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, cached.ID)

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, svc.Instance(), ev.Instance)
	assert.Equal(t, EventOrderCreated, ev.Action)
	assert.Equal(t, order.ID, ev.EntityID)
	assert.Equal(t, "100.00", ev.Data["total"])
	assert.Equal(t, cartID, ev.Data["cart_id"])
}

func TestCheckoutIgnoresMirrorFailure(t *testing.T) {
	mirror := newFakeMirror()
	mirror.err = errors.New("connection refused")
	svc, _, cartID := setup(t, Options{Mirror: mirror})

	order, err := svc.Checkout(context.Background(), checkoutRequest(cartID))
	require.NoError(t, err)

	_, err = svc.Order(context.Background(), order.ID)
	assert.NoError(t, err)
}

func TestOrderFallsBackToMirror(t *testing.T) {
	mirror := newFakeMirror()
	mirror.orders["boot-a/ORDER-77"] = models.Order{ID: "ORDER-77", Status: models.OrderCreated}
	svc, _, _ := setup(t, Options{Instance: "boot-a", Mirror: mirror})

	o, err := svc.Order(context.Background(), "ORDER-77")
	require.NoError(t, err)
	assert.Equal(t, "ORDER-77", o.ID)

	_, err = svc.Order(context.Background(), "ORDER-78")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestInstancesDoNotShareMirroredOrders(t *testing.T) {
	mirror := newFakeMirror()
	ctx := context.Background()

	first, _, cartID := setup(t, Options{Mirror: mirror})
	for i := 0; i < 2; i++ {
		_, err := first.Checkout(ctx, checkoutRequest(cartID))
		require.NoError(t, err)
	}

	// A restarted service numbers orders from ORDER-1 again.
	second, carts, _ := setup(t, Options{Mirror: mirror})
	require.NotEqual(t, first.Instance(), second.Instance())

	_, err := second.Order(ctx, "ORDER-2")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	c := carts.Create()
	order, err := second.Checkout(ctx, checkoutRequest(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", order.ID)
	assert.Equal(t, c.ID, order.CartID)

	old, err := mirror.GetOrderCache(ctx, first.Instance(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, cartID, old.CartID, "earlier boot's entry must survive")

	got, err := second.Order(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.CartID)
}

func TestGeneratedInstanceIDs(t *testing.T) {
	a, _, _ := setup(t, Options{})
	b, _, _ := setup(t, Options{Instance: "boot-b"})

	assert.NotEmpty(t, a.Instance())
	assert.Equal(t, "boot-b", b.Instance())
}

func TestOrderNotFound(t *testing.T) {
	svc, _, _ := setup(t, Options{})

	_, err := svc.Order(context.Background(), "ORDER-1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
