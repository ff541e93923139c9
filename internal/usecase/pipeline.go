package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/shelfmetrics/backend/internal/domain"
)

// PipelineConfig holds configuration for the batch transform.
type PipelineConfig struct {
	BatchSize int
}

// PipelineService runs the batch transform: load the raw catalog, normalize
// every pack-size label, derive pricing columns, replace the persisted table
// and optionally rebuild the search index. Each normalized row is computed
// once from its original raw label; a rerun replaces rows wholesale.
type PipelineService struct {
	source    domain.CatalogSource
	repo      domain.ProductRepository
	index     domain.SearchIndex // nil disables indexing
	pricing   *PricingService
	batchSize int
}

// NewPipelineService wires the pipeline. index may be nil.
func NewPipelineService(
	source domain.CatalogSource,
	repo domain.ProductRepository,
	index domain.SearchIndex,
	pricing *PricingService,
	config PipelineConfig,
) *PipelineService {
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &PipelineService{
		source:    source,
		repo:      repo,
		index:     index,
		pricing:   pricing,
		batchSize: batchSize,
	}
}

// PipelineResult reports what one run did.
type PipelineResult struct {
	Loaded      int `json:"loaded"`
	Parsed      int `json:"parsed"`
	Unparseable int `json:"unparseable"`
	UnknownUnit int `json:"unknownUnit"`
	Indexed     int `json:"indexed"`
}

// Run executes one batch transform over the full catalog.
func (s *PipelineService) Run(ctx context.Context) (*PipelineResult, error) {
	products, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(products) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	log.Printf("[PIPELINE] Loaded %d catalog records", len(products))

	result := &PipelineResult{Loaded: len(products)}
	rows := make([]domain.PricedProduct, 0, len(products))

	for start := 0; start < len(products); start += s.batchSize {
		end := start + s.batchSize
		if end > len(products) {
			end = len(products)
		}
		for _, p := range products[start:end] {
			row := s.pricing.PriceProduct(p)
			switch {
			case row.Quantity == nil:
				result.Unparseable++
			case row.Unit == domain.UnitUnknown:
				result.UnknownUnit++
				result.Parsed++
			default:
				result.Parsed++
			}
			rows = append(rows, row)
		}
		log.Printf("[PIPELINE] Normalized %d/%d products (%.1f%%)",
			end, len(products), float64(end)/float64(len(products))*100)
	}

	// Value labels need the catalog-wide mean, so they come after the full
	// pass.
	ApplyValueLabels(rows)

	if err := s.repo.ReplaceAll(ctx, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	log.Printf("[PIPELINE] Persisted %d rows (%d unparseable, %d unknown unit)",
		len(rows), result.Unparseable, result.UnknownUnit)

	if s.index != nil {
		if err := s.index.IndexProducts(ctx, rows); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
		}
		result.Indexed = len(rows)
		log.Printf("[PIPELINE] Indexed %d rows to search", len(rows))
	}

	return result, nil
}
