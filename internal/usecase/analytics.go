package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/shelfmetrics/backend/internal/domain"
)

// AnalyticsService answers aggregation queries over the persisted analytics
// table. All aggregation runs in Go over repository rows so the memory and
// Postgres stores behave identically.
type AnalyticsService struct {
	repo domain.ProductRepository
}

// NewAnalyticsService creates an analytics service backed by the given store.
func NewAnalyticsService(repo domain.ProductRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// CatalogSummary is the top-level health view of the normalized catalog.
type CatalogSummary struct {
	TotalProducts    int            `json:"totalProducts"`
	ParsedProducts   int            `json:"parsedProducts"`
	UnparsedProducts int            `json:"unparsedProducts"`
	UnitDistribution map[string]int `json:"unitDistribution"`
	ComparableRows   int            `json:"comparableRows"`
	MeanPricePer100g float64        `json:"meanPricePer100g"`
}

// Summary computes catalog-wide counts and the gram-cohort mean price.
func (s *AnalyticsService) Summary(ctx context.Context) (CatalogSummary, error) {
	rows, err := s.listAll(ctx)
	if err != nil {
		return CatalogSummary{}, err
	}

	summary := CatalogSummary{
		TotalProducts:    len(rows),
		UnitDistribution: make(map[string]int),
	}
	for i := range rows {
		if rows[i].Quantity == nil {
			summary.UnparsedProducts++
			continue
		}
		summary.ParsedProducts++
		summary.UnitDistribution[string(rows[i].Unit)]++
		if rows[i].Comparable() {
			summary.ComparableRows++
		}
	}
	if mean, ok := MeanPricePer100g(rows); ok {
		summary.MeanPricePer100g = mean
	}
	return summary, nil
}

// ValueSegments splits comparable rows by their Premium/Budget label.
type ValueSegments struct {
	MeanPricePer100g float64                `json:"meanPricePer100g"`
	PremiumCount     int                    `json:"premiumCount"`
	BudgetCount      int                    `json:"budgetCount"`
	Premium          []domain.PricedProduct `json:"premium"`
	Budget           []domain.PricedProduct `json:"budget"`
}

// Segments returns the Premium/Budget segmentation of the comparable cohort,
// each side sorted by price_per_100g (Premium descending, Budget ascending).
func (s *AnalyticsService) Segments(ctx context.Context) (ValueSegments, error) {
	rows, err := s.listAll(ctx)
	if err != nil {
		return ValueSegments{}, err
	}

	segments := ValueSegments{
		Premium: []domain.PricedProduct{},
		Budget:  []domain.PricedProduct{},
	}
	if mean, ok := MeanPricePer100g(rows); ok {
		segments.MeanPricePer100g = mean
	}
	for i := range rows {
		switch rows[i].ValueLabel {
		case domain.ValuePremium:
			segments.Premium = append(segments.Premium, rows[i])
		case domain.ValueBudget:
			segments.Budget = append(segments.Budget, rows[i])
		}
	}
	sort.Slice(segments.Premium, func(i, j int) bool {
		return *segments.Premium[i].PricePer100g > *segments.Premium[j].PricePer100g
	})
	sort.Slice(segments.Budget, func(i, j int) bool {
		return *segments.Budget[i].PricePer100g < *segments.Budget[j].PricePer100g
	})
	segments.PremiumCount = len(segments.Premium)
	segments.BudgetCount = len(segments.Budget)
	return segments, nil
}

// CategoryStats aggregates one product category.
type CategoryStats struct {
	Category        string  `json:"category"`
	Products        int     `json:"products"`
	AvgPrice        float64 `json:"avgPrice"`
	GramProducts    int     `json:"gramProducts"`
	AvgPricePer100g float64 `json:"avgPricePer100g"`
	AvgDiscountPct  float64 `json:"avgDiscountPercentage"`
}

// Categories returns per-category aggregates sorted by product count.
func (s *AnalyticsService) Categories(ctx context.Context) ([]CategoryStats, error) {
	rows, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	type accumulator struct {
		products     int
		priceSum     float64
		gramProducts int
		per100gSum   float64
		discountSum  float64
		discounted   int
	}
	byCategory := make(map[string]*accumulator)
	for i := range rows {
		acc, ok := byCategory[rows[i].Category]
		if !ok {
			acc = &accumulator{}
			byCategory[rows[i].Category] = acc
		}
		acc.products++
		acc.priceSum += rows[i].Price
		if rows[i].Comparable() {
			acc.gramProducts++
			acc.per100gSum += *rows[i].PricePer100g
		}
		if rows[i].DiscountPercentage != nil {
			acc.discounted++
			acc.discountSum += *rows[i].DiscountPercentage
		}
	}

	stats := make([]CategoryStats, 0, len(byCategory))
	for category, acc := range byCategory {
		cs := CategoryStats{
			Category: category,
			Products: acc.products,
			AvgPrice: acc.priceSum / float64(acc.products),
		}
		if acc.gramProducts > 0 {
			cs.GramProducts = acc.gramProducts
			cs.AvgPricePer100g = acc.per100gSum / float64(acc.gramProducts)
		}
		if acc.discounted > 0 {
			cs.AvgDiscountPct = acc.discountSum / float64(acc.discounted)
		}
		stats = append(stats, cs)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Products != stats[j].Products {
			return stats[i].Products > stats[j].Products
		}
		return stats[i].Category < stats[j].Category
	})
	return stats, nil
}

// TopDiscounts returns the rows with the highest discount percentage.
func (s *AnalyticsService) TopDiscounts(ctx context.Context, limit int) ([]domain.PricedProduct, error) {
	rows, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	discounted := make([]domain.PricedProduct, 0, len(rows))
	for i := range rows {
		if rows[i].DiscountPercentage != nil && *rows[i].DiscountPercentage > 0 {
			discounted = append(discounted, rows[i])
		}
	}
	sort.Slice(discounted, func(i, j int) bool {
		return *discounted[i].DiscountPercentage > *discounted[j].DiscountPercentage
	})
	if limit > 0 && len(discounted) > limit {
		discounted = discounted[:limit]
	}
	return discounted, nil
}

// LabelIssue identifies one row whose pack-size label needs manual review.
type LabelIssue struct {
	Category    string `json:"category"`
	ProductName string `json:"product_name"`
	PackSize    string `json:"packsize"`
	Reason      string `json:"reason"`
}

// QualityReport surfaces rows excluded from standardized pricing: labels
// that failed to parse and rows whose unit stayed unknown.
type QualityReport struct {
	TotalProducts   int          `json:"totalProducts"`
	Unparseable     int          `json:"unparseable"`
	UnknownUnit     int          `json:"unknownUnit"`
	ExcludedFromP4G int          `json:"excludedFromPricePer100g"`
	Issues          []LabelIssue `json:"issues"`
}

// Quality builds the data-quality report for manual review.
func (s *AnalyticsService) Quality(ctx context.Context) (QualityReport, error) {
	rows, err := s.listAll(ctx)
	if err != nil {
		return QualityReport{}, err
	}

	report := QualityReport{
		TotalProducts: len(rows),
		Issues:        []LabelIssue{},
	}
	for i := range rows {
		switch {
		case rows[i].Quantity == nil:
			report.Unparseable++
			report.Issues = append(report.Issues, LabelIssue{
				Category:    rows[i].Category,
				ProductName: rows[i].ProductName,
				PackSize:    rows[i].PackSize,
				Reason:      "no numeric token in pack-size label",
			})
		case rows[i].Unit == domain.UnitUnknown:
			report.UnknownUnit++
			report.Issues = append(report.Issues, LabelIssue{
				Category:    rows[i].Category,
				ProductName: rows[i].ProductName,
				PackSize:    rows[i].PackSize,
				Reason:      "numeric value kept but unit not recognized",
			})
		}
		if !rows[i].Comparable() {
			report.ExcludedFromP4G++
		}
	}
	return report, nil
}

func (s *AnalyticsService) listAll(ctx context.Context) ([]domain.PricedProduct, error) {
	rows, err := s.repo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return rows, nil
}
