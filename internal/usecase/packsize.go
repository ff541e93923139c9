package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shelfmetrics/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Matches decimal numeric tokens like "600" or "1.5". Digits only: a
	// leading minus sign is never part of a token, so negative amounts in
	// dirty labels cannot leak through as negative quantities.
	numericTokenRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// packSizeRule is one entry of the ordered keyword-dispatch table. The first
// rule whose keyword matches the lowercased label wins, even when a later
// keyword is also present ("1 kg bag" classifies as kilogram, not gram).
type packSizeRule struct {
	name     string
	keywords []string
	unit     domain.Unit
	quantity func(tokens []float64) float64
}

// PackSizeNormalizer parses free-form pack-size labels ("600-800 g",
// "1.5 kg", "4 pcs", "250 ml") into canonical quantity/unit pairs.
type PackSizeNormalizer struct {
	rules []packSizeRule
}

// NewPackSizeNormalizer creates a normalizer with the fixed rule priority:
// piece, kilogram, milligram, milliliter, liter, gram. Anything with a numeric
// token but no recognized keyword falls through to the unknown unit.
func NewPackSizeNormalizer() *PackSizeNormalizer {
	return &PackSizeNormalizer{
		rules: []packSizeRule{
			{
				// Piece counts never average a range; "4-6 pcs" keeps 4.
				name:     "piece",
				keywords: []string{"pc", "piece", "pack"},
				unit:     domain.UnitPiece,
				quantity: firstToken,
			},
			{
				// Same first-token-only behavior for kilogram ranges.
				name:     "kilogram",
				keywords: []string{"kg"},
				unit:     domain.UnitGram,
				quantity: func(tokens []float64) float64 { return tokens[0] * 1000 },
			},
			{
				name:     "milligram",
				keywords: []string{"mg"},
				unit:     domain.UnitMilligram,
				quantity: firstToken,
			},
			{
				name:     "milliliter",
				keywords: []string{"ml"},
				unit:     domain.UnitMilliliter,
				quantity: rangeMidpoint,
			},
			{
				// Liter is a space followed by "l" so that "ml" (consumed
				// above) never reaches it. Known limitation: labels like
				// "l 500" escape this marker.
				name:     "liter",
				keywords: []string{" l"},
				unit:     domain.UnitMilliliter,
				quantity: func(tokens []float64) float64 { return tokens[0] * 1000 },
			},
			{
				name:     "gram",
				keywords: []string{"gm", "g"},
				unit:     domain.UnitGram,
				quantity: rangeMidpoint,
			},
		},
	}
}

// Normalize parses a raw pack-size label. ok is false when the label is
// absent or carries no numeric token; in that case the returned size is the
// zero value and must not be interpreted as quantity zero.
func (n *PackSizeNormalizer) Normalize(label string) (domain.NormalizedSize, bool) {
	if label == "" {
		return domain.NormalizedSize{}, false
	}

	lowered := strings.ToLower(label)
	tokens := ExtractNumbers(lowered)
	if len(tokens) == 0 {
		return domain.NormalizedSize{}, false
	}

	for _, rule := range n.rules {
		if containsAny(lowered, rule.keywords) {
			return domain.NormalizedSize{
				Quantity: rule.quantity(tokens),
				Unit:     rule.unit,
			}, true
		}
	}

	// Numeric token but no unit keyword: keep the raw value for manual
	// reclassification instead of discarding the row.
	return domain.NormalizedSize{
		Quantity: tokens[0],
		Unit:     domain.UnitUnknown,
	}, true
}

// ExtractNumbers returns all decimal numeric tokens in s, in order of
// appearance. Malformed fragments that fail to parse are skipped.
func ExtractNumbers(s string) []float64 {
	matches := numericTokenRegex.FindAllString(s, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]float64, 0, len(matches))
	for _, m := range matches {
		value, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		tokens = append(tokens, value)
	}
	return tokens
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func firstToken(tokens []float64) float64 {
	return tokens[0]
}

// rangeMidpoint resolves range labels ("600-800 g") to the mean of the first
// two tokens; single-token labels pass through unchanged. Only the milliliter
// and gram branches average — piece, kilogram and milligram keep the first
// token even when a range is present, matching the established table.
func rangeMidpoint(tokens []float64) float64 {
	if len(tokens) >= 2 {
		return (tokens[0] + tokens[1]) / 2
	}
	return tokens[0]
}
