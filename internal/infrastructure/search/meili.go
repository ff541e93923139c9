package search

import (
	"context"
	"fmt"
	"log"

	meilisearch "github.com/meilisearch/meilisearch-go"

	"github.com/shelfmetrics/backend/internal/domain"
)

const indexBatchSize = 1000

// MeiliIndexer pushes the normalized catalog into a Meilisearch index so the
// storefront can search and facet over it. Prices are indexed in cents.
type MeiliIndexer struct {
	client    meilisearch.ServiceManager
	indexName string
}

// NewMeiliIndexer creates an indexer for the given instance and index uid.
func NewMeiliIndexer(url, apiKey, indexName string) *MeiliIndexer {
	return &MeiliIndexer{
		client:    meilisearch.New(url, meilisearch.WithAPIKey(apiKey)),
		indexName: indexName,
	}
}

// IndexProducts rebuilds the index from the given rows.
func (m *MeiliIndexer) IndexProducts(ctx context.Context, rows []domain.PricedProduct) error {
	_, _ = m.client.DeleteIndex(m.indexName)
	if _, err := m.client.CreateIndex(&meilisearch.IndexConfig{Uid: m.indexName, PrimaryKey: "id"}); err != nil {
		log.Printf("[SEARCH] Could not create index (may already exist): %v", err)
	}

	index := m.client.Index(m.indexName)

	// Best effort, like index creation: a settings failure should not lose
	// the documents.
	settings := meilisearch.Settings{
		SearchableAttributes: []string{"productName", "category"},
		FilterableAttributes: []string{"category", "unit", "valueLabel", "priceCents"},
		SortableAttributes:   []string{"priceCents", "productName"},
	}
	if _, err := index.UpdateSettings(&settings); err != nil {
		log.Printf("[SEARCH] Could not update index settings: %v", err)
	}

	for start := 0; start < len(rows); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		docs := make([]map[string]interface{}, 0, end-start)
		for i := start; i < end; i++ {
			docs = append(docs, toDocument(i, &rows[i]))
		}
		if _, err := index.AddDocuments(docs, nil); err != nil {
			return fmt.Errorf("failed to index batch: %w", err)
		}
	}

	return nil
}

func toDocument(id int, row *domain.PricedProduct) map[string]interface{} {
	doc := map[string]interface{}{
		"id":          fmt.Sprintf("product_%d", id),
		"productName": row.ProductName,
		"category":    row.Category,
		"packsize":    row.PackSize,
		"priceCents":  int(row.Price * 100),
		"rating":      row.Rating,
	}
	if row.Quantity != nil {
		doc["quantity"] = *row.Quantity
		doc["unit"] = string(row.Unit)
	}
	if row.PricePer100g != nil {
		doc["pricePer100g"] = *row.PricePer100g
	}
	if row.ValueLabel != "" {
		doc["valueLabel"] = row.ValueLabel
	}
	if row.DiscountPercentage != nil {
		doc["discountPercentage"] = *row.DiscountPercentage
	}
	return doc
}
