package service

import (
	"context"

	"github.com/mpetrenko/storefront/internal/models"
)

// Pricing is the read-only catalog view checkout validates against.
type Pricing struct {
	ProductID uint
	UnitPrice int64
	Stock     uint
}

type CartReader interface {
	GetCart(ctx context.Context, userID uint) ([]models.CartItem, error)
	ClearCart(ctx context.Context, userID uint) error
}

type CatalogReader interface {
	GetPricing(ctx context.Context, productID uint) (*Pricing, error)
}

// OrderRepository stays narrow so order placement is testable without a
// real store.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, []models.OrderItem, error)
	ListOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
