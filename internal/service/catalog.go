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

// ProductIndexer mirrors catalog writes into the search index.
type ProductIndexer interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type CatalogService struct {
	Repo     *repo.GormRepo
	Producer EventPublisher
	Indexer  ProductIndexer
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, id)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

// GetPricing is the catalog view checkout validates against; read-only,
// no reservation.
func (s *CatalogService) GetPricing(ctx context.Context, productID uint) (*Pricing, error) {
	prod, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &Pricing{
		ProductID: prod.ID,
		UnitPrice: prod.Price,
		Stock:     prod.Stock,
	}, nil
}

type ProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *int64
	Stock       *uint
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if in.Price == nil || *in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	prod := models.Product{Name: *in.Name, Price: *in.Price}
	if in.Description != nil {
		prod.Description = *in.Description
	}
	if in.Category != nil {
		prod.Category = *in.Category
	}
	if in.Stock != nil {
		prod.Stock = *in.Stock
	}

	created, err := s.Repo.CreateProduct(ctx, &prod)
	if err != nil {
		return nil, err
	}

	s.index(ctx, created)
	s.publish(ctx, map[string]any{
		"type":      "product_created",
		"productID": created.ID,
		"name":      created.Name,
	})
	return created, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if in.Price != nil && *in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, id, func(p *models.Product) {
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Category != nil {
			p.Category = *in.Category
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Stock != nil {
			p.Stock = *in.Stock
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, id)
		}
		return nil, err
	}

	s.index(ctx, prod)
	s.publish(ctx, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrProductNotFound, id)
		}
		return err
	}

	if s.Indexer != nil {
		if err := s.Indexer.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search index delete failed", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search index update failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, event map[string]any) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.Publish(ctx, events.TopicProduct, fmt.Sprint(event["productID"]), event); err != nil {
		logging.FromContext(ctx).Warn("product event publish failed", "error", err)
	}
}
