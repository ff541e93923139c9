package domain

import "context"

// ProductRepository defines the interface for the persisted analytics table.
// The table is replace-on-rerun: normalized rows are computed once per batch
// transform and never mutated afterward.
type ProductRepository interface {
	ReplaceAll(ctx context.Context, rows []PricedProduct) error
	List(ctx context.Context, limit, offset int) ([]PricedProduct, error)
	Count(ctx context.Context) (int, error)
}

// CatalogSource defines the interface for reading the upstream product export.
type CatalogSource interface {
	Load(ctx context.Context) ([]Product, error)
}

// SearchIndex defines the interface for the optional storefront search index.
type SearchIndex interface {
	IndexProducts(ctx context.Context, rows []PricedProduct) error
}
