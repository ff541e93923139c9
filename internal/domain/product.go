package domain

// Unit is the closed set of canonical pack-size units.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilligram  Unit = "mg"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "pcs"
	UnitUnknown    Unit = "unknown"
)

// NormalizedSize is the canonical quantity/unit pair parsed from a pack-size
// label. It is only ever produced as a whole: there is no valid state with a
// unit but no quantity.
type NormalizedSize struct {
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
}

// Product is a raw catalog record as it arrives from the upstream export.
// PackSize is the free-text label ("600-800 g", "4 pcs"); empty means absent.
type Product struct {
	Category      string  `json:"category"`
	Name          string  `json:"product_name"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	Rating        float64 `json:"rating"`
	PackSize      string  `json:"packsize"`
}

// Value labels assigned by comparing a row's price_per_100g against the
// catalog-wide mean over gram-denominated rows.
const (
	ValuePremium = "Premium"
	ValueBudget  = "Budget"
)

// PricedProduct is one row of the persisted analytics table. Derived fields
// are pointers because parse failure must stay distinguishable from zero:
// a nil Quantity means the pack-size label was absent or unparseable, and in
// that case Unit is empty as well.
type PricedProduct struct {
	Category           string   `json:"category"`
	ProductName        string   `json:"product_name"`
	Price              float64  `json:"price"`
	PackSize           string   `json:"packsize,omitempty"`
	Quantity           *float64 `json:"quantity,omitempty"`
	Unit               Unit     `json:"unit,omitempty"`
	UnitPrice          *float64 `json:"unit_price,omitempty"`
	Rating             float64  `json:"rating"`
	OriginalPrice      float64  `json:"original_price"`
	Discount           *float64 `json:"discount,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	PricePer100g       *float64 `json:"price_per_100g,omitempty"`
	ValueLabel         string   `json:"value_label,omitempty"`
}

// Comparable reports whether the row qualifies for standardized-price
// comparisons: gram-denominated, positive quantity, non-zero price_per_100g.
func (p *PricedProduct) Comparable() bool {
	return p.Unit == UnitGram &&
		p.Quantity != nil && *p.Quantity > 0 &&
		p.PricePer100g != nil && *p.PricePer100g != 0
}
