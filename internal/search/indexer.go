package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/mpetrenko/storefront/internal/models"
)

// Indexer mirrors catalog writes into the product index so search stays a
// read-only view; the database remains the source of truth.
type Indexer struct {
	ES        *elasticsearch.Client
	IndexName string
}

func (i *Indexer) Index(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := i.ES.Index(
		i.IndexName,
		bytes.NewReader(body),
		i.ES.Index.WithDocumentID(fmt.Sprint(p.ID)),
		i.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func (i *Indexer) Delete(ctx context.Context, id uint) error {
	res, err := i.ES.Delete(
		i.IndexName,
		fmt.Sprint(id),
		i.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete product %d from index: %w", id, err)
	}
	defer res.Body.Close()

	// 404 just means the document never made it into the index.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product %d from index: %s", id, res.Status())
	}
	return nil
}
