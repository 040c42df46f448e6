package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mpetrenko/storefront/internal/models"
)

// CreateOrder persists the order and its items in one transaction; partial
// writes are never visible.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	}); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder scopes by owner so a foreign order surfaces as not-found rather
// than leaking its existence.
func (r *GormRepo) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, []models.OrderItem, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, nil, err
	}

	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		order.Status = status
		return tx.Save(&order).Error
	}); err != nil {
		return nil, err
	}
	return &order, nil
}
