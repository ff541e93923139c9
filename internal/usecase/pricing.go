package usecase

import (
	"regexp"

	"github.com/shelfmetrics/backend/internal/domain"
)

// Matches a minus sign directly in front of a numeric token ("-5 g").
// Range dashes between two numbers ("600-800 g") do not match.
var negativeTokenRegex = regexp.MustCompile(`(?:^|\s)-\d`)

// PricingService derives the standardized pricing columns from a raw catalog
// record: normalized quantity/unit, unit price, price per 100g, discount.
type PricingService struct {
	normalizer *PackSizeNormalizer
}

// NewPricingService creates a pricing service with its own normalizer.
func NewPricingService() *PricingService {
	return &PricingService{
		normalizer: NewPackSizeNormalizer(),
	}
}

// Normalizer exposes the underlying pack-size normalizer for single-label use.
func (s *PricingService) Normalizer() *PackSizeNormalizer {
	return s.normalizer
}

// PriceProduct computes one analytics row from a raw catalog record. Rows
// whose label cannot be normalized keep nil derived fields; they are routed
// to the data-quality report downstream, never dropped here.
func (s *PricingService) PriceProduct(p domain.Product) domain.PricedProduct {
	row := domain.PricedProduct{
		Category:      p.Category,
		ProductName:   p.Name,
		Price:         p.Price,
		PackSize:      p.PackSize,
		Rating:        p.Rating,
		OriginalPrice: p.OriginalPrice,
	}

	// Discounts do not depend on the pack size.
	if p.OriginalPrice > 0 {
		discount := p.OriginalPrice - p.Price
		discountPct := discount / p.OriginalPrice * 100
		row.Discount = &discount
		row.DiscountPercentage = &discountPct
	}

	// A negative amount in the label is a data-quality violation, not a
	// negative quantity. Treat the row as unparseable.
	if negativeTokenRegex.MatchString(p.PackSize) {
		return row
	}

	size, ok := s.normalizer.Normalize(p.PackSize)
	if !ok {
		return row
	}

	quantity := size.Quantity
	row.Quantity = &quantity
	row.Unit = size.Unit

	if quantity > 0 {
		unitPrice := p.Price / quantity
		row.UnitPrice = &unitPrice

		// Standardized price metric, gram-denominated rows only.
		if size.Unit == domain.UnitGram {
			per100g := unitPrice * 100
			row.PricePer100g = &per100g
		}
	}

	return row
}

// MeanPricePer100g returns the mean price_per_100g over rows that qualify for
// standardized-price comparisons. ok is false when no row qualifies.
func MeanPricePer100g(rows []domain.PricedProduct) (float64, bool) {
	var sum float64
	var count int
	for i := range rows {
		if rows[i].Comparable() {
			sum += *rows[i].PricePer100g
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// ApplyValueLabels segments comparable rows into Premium and Budget against
// the catalog-wide mean price_per_100g. Strictly above the mean is Premium;
// ties go to Budget. Non-comparable rows carry no label.
func ApplyValueLabels(rows []domain.PricedProduct) {
	mean, ok := MeanPricePer100g(rows)
	if !ok {
		return
	}
	for i := range rows {
		if !rows[i].Comparable() {
			continue
		}
		if *rows[i].PricePer100g > mean {
			rows[i].ValueLabel = domain.ValuePremium
		} else {
			rows[i].ValueLabel = domain.ValueBudget
		}
	}
}
