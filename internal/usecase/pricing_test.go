package usecase

import (
	"math"
	"testing"

	"github.com/shelfmetrics/backend/internal/domain"
)

const tolerance = 1e-9

func TestPriceProduct(t *testing.T) {
	service := NewPricingService()

	t.Run("gram row gets unit price and price per 100g", func(t *testing.T) {
		row := service.PriceProduct(domain.Product{
			Category: "cheese",
			Name:     "cheddar block",
			Price:    350,
			PackSize: "700 g",
		})

		if row.Quantity == nil || *row.Quantity != 700 {
			t.Fatalf("Quantity = %v, want 700", row.Quantity)
		}
		if row.Unit != domain.UnitGram {
			t.Errorf("Unit = %v, want %v", row.Unit, domain.UnitGram)
		}
		if row.UnitPrice == nil || math.Abs(*row.UnitPrice-0.5) > tolerance {
			t.Errorf("UnitPrice = %v, want 0.5", row.UnitPrice)
		}
		if row.PricePer100g == nil || math.Abs(*row.PricePer100g-50) > tolerance {
			t.Errorf("PricePer100g = %v, want 50", row.PricePer100g)
		}
	})

	t.Run("price per 100g equals unit price times 100 for gram rows", func(t *testing.T) {
		row := service.PriceProduct(domain.Product{
			Name:     "rice",
			Price:    129.90,
			PackSize: "600-800 g",
		})

		if row.UnitPrice == nil || row.PricePer100g == nil {
			t.Fatalf("derived fields missing: unitPrice=%v pricePer100g=%v", row.UnitPrice, row.PricePer100g)
		}
		want := *row.UnitPrice * 100
		if math.Abs(*row.PricePer100g-want) > tolerance {
			t.Errorf("PricePer100g = %v, want %v", *row.PricePer100g, want)
		}
	})

	t.Run("non-gram units carry no price per 100g", func(t *testing.T) {
		row := service.PriceProduct(domain.Product{
			Name:     "juice",
			Price:    99,
			PackSize: "250 ml",
		})

		if row.UnitPrice == nil {
			t.Fatal("UnitPrice = nil, want value")
		}
		if row.PricePer100g != nil {
			t.Errorf("PricePer100g = %v, want nil for milliliter row", *row.PricePer100g)
		}
	})

	t.Run("zero quantity gets no unit price", func(t *testing.T) {
		row := service.PriceProduct(domain.Product{
			Name:     "mystery",
			Price:    10,
			PackSize: "0 g",
		})

		if row.Quantity == nil || *row.Quantity != 0 {
			t.Fatalf("Quantity = %v, want 0 (a valid parse)", row.Quantity)
		}
		if row.UnitPrice != nil {
			t.Errorf("UnitPrice = %v, want nil for zero quantity", *row.UnitPrice)
		}
		if row.PricePer100g != nil {
			t.Errorf("PricePer100g = %v, want nil for zero quantity", *row.PricePer100g)
		}
	})

	t.Run("unparseable label keeps row with nil derived fields", func(t *testing.T) {
		row := service.PriceProduct(domain.Product{
			Name:     "loose greens",
			Price:    25,
			PackSize: "family size",
		})

		if row.Quantity != nil {
			t.Errorf("Quantity = %v, want nil", *row.Quantity)
		}
		if row.Unit != "" {
			t.Errorf("Unit = %q, want empty alongside absent quantity", row.Unit)
		}
		if row.ProductName != "loose greens" {
			t.Errorf("ProductName = %q, row identity must survive parse failure", row.ProductName)
		}
	})

	t.Run("negative amount is rejected as a data-quality violation", func(t *testing.T) {
		row := service.PriceProduct(domain.Product{
			Name:     "bad import",
			Price:    10,
			PackSize: "-5 g",
		})

		if row.Quantity != nil {
			t.Errorf("Quantity = %v, want nil for negative label", *row.Quantity)
		}
	})

	t.Run("discount fields", func(t *testing.T) {
		row := service.PriceProduct(domain.Product{
			Name:          "olive oil",
			Price:         80,
			OriginalPrice: 100,
			PackSize:      "1 l",
		})

		if row.Discount == nil || math.Abs(*row.Discount-20) > tolerance {
			t.Errorf("Discount = %v, want 20", row.Discount)
		}
		if row.DiscountPercentage == nil || math.Abs(*row.DiscountPercentage-20) > tolerance {
			t.Errorf("DiscountPercentage = %v, want 20", row.DiscountPercentage)
		}
	})

	t.Run("no original price means no discount fields", func(t *testing.T) {
		row := service.PriceProduct(domain.Product{
			Name:     "staple",
			Price:    10,
			PackSize: "1 kg",
		})

		if row.Discount != nil || row.DiscountPercentage != nil {
			t.Errorf("discount fields = (%v, %v), want nil", row.Discount, row.DiscountPercentage)
		}
	})
}

func gramRow(name string, price, grams float64) domain.PricedProduct {
	unitPrice := price / grams
	per100g := unitPrice * 100
	return domain.PricedProduct{
		ProductName:  name,
		Price:        price,
		Quantity:     &grams,
		Unit:         domain.UnitGram,
		UnitPrice:    &unitPrice,
		PricePer100g: &per100g,
	}
}

func TestMeanPricePer100g(t *testing.T) {
	t.Run("mean over comparable rows only", func(t *testing.T) {
		qty := 250.0
		rows := []domain.PricedProduct{
			gramRow("a", 100, 100), // 100 per 100g
			gramRow("b", 100, 500), // 20 per 100g
			{ProductName: "ml row", Quantity: &qty, Unit: domain.UnitMilliliter},
			{ProductName: "unparsed"},
		}

		mean, ok := MeanPricePer100g(rows)
		if !ok {
			t.Fatal("ok = false, want true")
		}
		if math.Abs(mean-60) > tolerance {
			t.Errorf("mean = %v, want 60", mean)
		}
	})

	t.Run("no comparable rows", func(t *testing.T) {
		_, ok := MeanPricePer100g([]domain.PricedProduct{{ProductName: "unparsed"}})
		if ok {
			t.Error("ok = true, want false")
		}
	})
}

func TestApplyValueLabels(t *testing.T) {
	t.Run("premium above mean, budget at or below", func(t *testing.T) {
		qty := 4.0
		rows := []domain.PricedProduct{
			gramRow("expensive", 300, 100), // 300 per 100g
			gramRow("cheap", 30, 100),      // 30 per 100g
			gramRow("middle", 165, 100),    // 165 per 100g == mean, ties go to Budget
			{ProductName: "pieces", Quantity: &qty, Unit: domain.UnitPiece},
		}

		ApplyValueLabels(rows)

		if rows[0].ValueLabel != domain.ValuePremium {
			t.Errorf("expensive label = %q, want %q", rows[0].ValueLabel, domain.ValuePremium)
		}
		if rows[1].ValueLabel != domain.ValueBudget {
			t.Errorf("cheap label = %q, want %q", rows[1].ValueLabel, domain.ValueBudget)
		}
		if rows[2].ValueLabel != domain.ValueBudget {
			t.Errorf("mean-tie label = %q, want %q", rows[2].ValueLabel, domain.ValueBudget)
		}
		if rows[3].ValueLabel != "" {
			t.Errorf("non-comparable row label = %q, want empty", rows[3].ValueLabel)
		}
	})

	t.Run("no comparable rows leaves everything unlabeled", func(t *testing.T) {
		rows := []domain.PricedProduct{{ProductName: "unparsed"}}
		ApplyValueLabels(rows)
		if rows[0].ValueLabel != "" {
			t.Errorf("label = %q, want empty", rows[0].ValueLabel)
		}
	})
}
