package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mpetrenko/storefront/internal/events"
	"github.com/mpetrenko/storefront/internal/models"
	"github.com/mpetrenko/storefront/internal/repo"
	"github.com/mpetrenko/storefront/pkg/logging"
)

type CartService struct {
	Repo     *repo.GormRepo
	Producer EventPublisher
}

func (s *CartService) Get(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrInvalidQuantity)
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
		}
		return nil, err
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  uint(quantity),
	}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":       "cart_item_added",
		"userID":     userID,
		"productID":  productID,
		"quantity":   item.Quantity,
		"cartItemID": item.ID,
	})
	return &item, nil
}

func (s *CartService) Update(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrInvalidQuantity)
	}

	item, err := s.Repo.UpdateCartItem(ctx, userID, itemID, uint(quantity))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %d", ErrItemNotFound, itemID)
		}
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":       "cart_item_updated",
		"userID":     userID,
		"cartItemID": item.ID,
		"quantity":   item.Quantity,
	})
	return item, nil
}

// Remove is a no-op when the line is already gone.
func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	if err := s.Repo.RemoveCartItem(ctx, userID, itemID); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":       "cart_item_removed",
		"userID":     userID,
		"cartItemID": itemID,
	})
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}

	s.publish(ctx, userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return nil
}

type MergeItem struct {
	ProductID uint
	Quantity  int
}

// Merge folds a guest cart into the user's server-side cart on login. The
// server cart is authoritative; guest lines are added on top, quantities
// summed for lines both carts share. Lines referencing unknown products or
// non-positive quantities are dropped rather than failing the whole merge.
func (s *CartService) Merge(ctx context.Context, userID uint, guest []MergeItem) ([]models.CartItem, error) {
	for _, g := range guest {
		if g.Quantity <= 0 {
			continue
		}
		if _, err := s.Repo.GetProduct(ctx, g.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		item := models.CartItem{
			UserID:    userID,
			ProductID: g.ProductID,
			Quantity:  uint(g.Quantity),
		}
		if err := s.Repo.AddToCart(ctx, &item); err != nil {
			return nil, err
		}
	}

	merged, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":   "cart_merged",
		"userID": userID,
		"lines":  len(merged),
	})
	return merged, nil
}

func (s *CartService) publish(ctx context.Context, userID uint, event map[string]any) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.Publish(ctx, events.TopicCart, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Warn("cart event publish failed", "error", err)
	}
}
