package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mpetrenko/storefront/internal/events"
	"github.com/mpetrenko/storefront/internal/models"
	"github.com/mpetrenko/storefront/internal/payment"
	"github.com/mpetrenko/storefront/pkg/logging"
)

const maxPricingConcurrency = 10

type OrderService struct {
	Cart     CartReader
	Catalog  CatalogReader
	Orders   OrderRepository
	Charger  payment.Charger
	Producer EventPublisher
}

type PlacedOrder struct {
	Order *models.Order
	Items []models.OrderItem
}

// PlaceOrder converts the user's cart into an order: validate every line
// against the catalog, compute the total, charge, persist order and items
// in one transaction, then clear the cart. Any failure before the
// transaction commits leaves the cart untouched and no order visible, so a
// retry after a declined payment is safe.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, addressID uint, paymentMethod string) (*PlacedOrder, error) {
	if addressID == 0 {
		return nil, fmt.Errorf("%w: address_id required", ErrValidation)
	}
	if paymentMethod == "" {
		return nil, fmt.Errorf("%w: payment_method required", ErrValidation)
	}

	cartItems, err := s.Cart.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	orderItems, total, err := s.priceLines(ctx, cartItems)
	if err != nil {
		return nil, err
	}

	chargeRef := uuid.NewString()
	if err := s.Charger.Charge(ctx, payment.ChargeRequest{
		Reference: chargeRef,
		UserID:    userID,
		Amount:    total,
		Method:    paymentMethod,
	}); err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, chargeRef)
		}
		return nil, fmt.Errorf("charge %s: %w", chargeRef, err)
	}

	order := &models.Order{
		UserID:        userID,
		AddressID:     addressID,
		PaymentMethod: paymentMethod,
		Status:        models.OrderStatusCreated,
		Total:         total,
		CreatedAt:     time.Now().UTC(),
	}
	order, err = s.Orders.CreateOrder(ctx, order, orderItems)
	if err != nil {
		return nil, err
	}

	// The order is committed; a failed cart clear must not undo it.
	if err := s.Cart.ClearCart(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("cart clear after checkout failed",
			"user_id", userID, "order_id", order.ID, "error", err)
	}

	s.publish(ctx, userID, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.Total,
		"lines":   len(orderItems),
	})
	return &PlacedOrder{Order: order, Items: orderItems}, nil
}

// priceLines snapshots unit prices and validates stock for every cart line,
// fanning catalog lookups out with bounded concurrency.
func (s *OrderService) priceLines(ctx context.Context, cartItems []models.CartItem) ([]models.OrderItem, int64, error) {
	lines := make([]models.OrderItem, len(cartItems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPricingConcurrency)
	for idx := range cartItems {
		idx := idx
		g.Go(func() error {
			it := cartItems[idx]

			pricing, err := s.Catalog.GetPricing(gctx, it.ProductID)
			if err != nil {
				return err
			}
			if pricing.Stock < it.Quantity {
				return fmt.Errorf("%w: product %d has %d in stock, %d requested",
					ErrProductUnavailable, it.ProductID, pricing.Stock, it.Quantity)
			}

			lines[idx] = models.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: pricing.UnitPrice,
				LineTotal: int64(it.Quantity) * pricing.UnitPrice,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var total int64
	for _, line := range lines {
		total += line.LineTotal
	}
	return lines, total, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*PlacedOrder, error) {
	order, items, err := s.Orders.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	return &PlacedOrder{Order: order, Items: items}, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	return s.Orders.ListOrders(ctx, userID, offset, limit)
}

// UpdateStatus is the admin-only transition path; orders are otherwise
// immutable after creation.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.Orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
		}
		return nil, err
	}

	s.publish(ctx, order.UserID, map[string]any{
		"type":    "order_status_changed",
		"userID":  order.UserID,
		"orderID": order.ID,
		"status":  order.Status,
	})
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, userID uint, event map[string]any) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.Publish(ctx, events.TopicOrder, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Warn("order event publish failed", "error", err)
	}
}
