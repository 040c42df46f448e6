package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/storefront/internal/models"
	"github.com/mpetrenko/storefront/internal/payment"
)

type fakeCart struct {
	items   map[uint][]models.CartItem
	cleared []uint
}

func (f *fakeCart) GetCart(_ context.Context, userID uint) ([]models.CartItem, error) {
	return f.items[userID], nil
}

func (f *fakeCart) ClearCart(_ context.Context, userID uint) error {
	f.cleared = append(f.cleared, userID)
	delete(f.items, userID)
	return nil
}

type fakeCatalog struct {
	pricing map[uint]Pricing
}

func (f *fakeCatalog) GetPricing(_ context.Context, productID uint) (*Pricing, error) {
	p, ok := f.pricing[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
	}
	return &p, nil
}

type fakeOrders struct {
	nextID uint
	orders map[uint]*models.Order
	items  map[uint][]models.OrderItem
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		nextID: 1,
		orders: map[uint]*models.Order{},
		items:  map[uint][]models.OrderItem{},
	}
}

func (f *fakeOrders) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error) {
	order.ID = f.nextID
	f.nextID++
	for i := range items {
		items[i].OrderID = order.ID
	}
	f.orders[order.ID] = order
	f.items[order.ID] = items
	return order, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, userID, orderID uint) (*models.Order, []models.OrderItem, error) {
	order, ok := f.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
	}
	return order, f.items[orderID], nil
}

func (f *fakeOrders) ListOrders(_ context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return int64(len(out)), out, nil
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, orderID uint, status string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
	}
	order.Status = status
	return order, nil
}

func newCheckoutEnv() (*OrderService, *fakeCart, *fakeCatalog, *fakeOrders) {
	cart := &fakeCart{items: map[uint][]models.CartItem{}}
	catalog := &fakeCatalog{pricing: map[uint]Pricing{}}
	orders := newFakeOrders()
	svc := &OrderService{
		Cart:    cart,
		Catalog: catalog,
		Orders:  orders,
		Charger: &payment.Mock{},
	}
	return svc, cart, catalog, orders
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	t.Parallel()

	svc, _, _, orders := newCheckoutEnv()

	_, err := svc.PlaceOrder(context.Background(), 1, 7, "card")
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Empty(t, orders.orders)
}

func TestPlaceOrder_TotalAndSnapshot(t *testing.T) {
	t.Parallel()

	svc, cart, catalog, orders := newCheckoutEnv()
	cart.items[1] = []models.CartItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
		{ID: 2, UserID: 1, ProductID: 20, Quantity: 1},
	}
	catalog.pricing[10] = Pricing{ProductID: 10, UnitPrice: 1000, Stock: 5}
	catalog.pricing[20] = Pricing{ProductID: 20, UnitPrice: 500, Stock: 5}

	placed, err := svc.PlaceOrder(context.Background(), 1, 7, "card")
	require.NoError(t, err)

	require.Equal(t, models.OrderStatusCreated, placed.Order.Status)
	require.Equal(t, int64(2500), placed.Order.Total)
	require.Equal(t, uint(7), placed.Order.AddressID)
	require.Len(t, placed.Items, 2)

	var sum int64
	for _, it := range placed.Items {
		require.Equal(t, int64(it.Quantity)*it.UnitPrice, it.LineTotal)
		sum += it.LineTotal
	}
	require.Equal(t, placed.Order.Total, sum)

	require.Len(t, orders.orders, 1)
	require.Empty(t, cart.items[1], "cart must be cleared after a confirmed order")
	require.Equal(t, []uint{1}, cart.cleared)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	t.Parallel()

	svc, cart, catalog, orders := newCheckoutEnv()
	cart.items[1] = []models.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 3}}
	catalog.pricing[10] = Pricing{ProductID: 10, UnitPrice: 1000, Stock: 0}

	_, err := svc.PlaceOrder(context.Background(), 1, 7, "card")
	require.ErrorIs(t, err, ErrProductUnavailable)

	require.Empty(t, orders.orders)
	require.Len(t, cart.items[1], 1, "cart must be untouched on failure")
	require.Empty(t, cart.cleared)
}

func TestPlaceOrder_ProductVanished(t *testing.T) {
	t.Parallel()

	svc, cart, _, orders := newCheckoutEnv()
	cart.items[1] = []models.CartItem{{ID: 1, UserID: 1, ProductID: 99, Quantity: 1}}

	_, err := svc.PlaceOrder(context.Background(), 1, 7, "card")
	require.ErrorIs(t, err, ErrProductNotFound)
	require.Empty(t, orders.orders)
	require.Len(t, cart.items[1], 1)
}

func TestPlaceOrder_PaymentDeclined(t *testing.T) {
	t.Parallel()

	svc, cart, catalog, orders := newCheckoutEnv()
	cart.items[1] = []models.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 2}}
	catalog.pricing[10] = Pricing{ProductID: 10, UnitPrice: 1000, Stock: 5}
	svc.Charger = &payment.Mock{Decline: func(payment.ChargeRequest) bool { return true }}

	_, err := svc.PlaceOrder(context.Background(), 1, 7, "card")
	require.ErrorIs(t, err, ErrPaymentFailed)

	require.Empty(t, orders.orders, "no order may persist after a declined payment")
	require.Len(t, cart.items[1], 1, "cart must survive a declined payment")

	// A retry with the same cart succeeds once the charge goes through.
	svc.Charger = &payment.Mock{}
	placed, err := svc.PlaceOrder(context.Background(), 1, 7, "card")
	require.NoError(t, err)
	require.Equal(t, int64(2000), placed.Order.Total)
}

func TestPlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	svc, cart, catalog, _ := newCheckoutEnv()
	cart.items[1] = []models.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}}
	catalog.pricing[10] = Pricing{ProductID: 10, UnitPrice: 100, Stock: 1}

	_, err := svc.PlaceOrder(context.Background(), 1, 0, "card")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PlaceOrder(context.Background(), 1, 7, "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetOrder_ForeignOrderHidden(t *testing.T) {
	t.Parallel()

	svc, cart, catalog, _ := newCheckoutEnv()
	cart.items[1] = []models.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}}
	catalog.pricing[10] = Pricing{ProductID: 10, UnitPrice: 100, Stock: 1}

	placed, err := svc.PlaceOrder(context.Background(), 1, 7, "card")
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), 2, placed.Order.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	t.Parallel()

	svc, _, _, orders := newCheckoutEnv()
	orders.orders[1] = &models.Order{ID: 1, UserID: 1, Status: models.OrderStatusCreated}

	_, err := svc.UpdateStatus(context.Background(), 1, "lost")
	require.ErrorIs(t, err, ErrValidation)

	order, err := svc.UpdateStatus(context.Background(), 1, models.OrderStatusShipped)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusShipped, order.Status)
}
