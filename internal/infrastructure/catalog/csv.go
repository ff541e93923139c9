package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shelfmetrics/backend/internal/domain"
)

// CSVSource reads the upstream product export. The file must carry a header
// row; column order is free. Recognized columns: category, product_name (or
// name), price, original_price, rating, packsize.
type CSVSource struct {
	path string
}

// NewCSVSource creates a catalog source for the given file path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load reads all product records. Rows with an unparseable price are logged
// and skipped rather than failing the whole import; the pack-size label is
// passed through untouched for the normalizer to judge.
func (s *CSVSource) Load(ctx context.Context) ([]domain.Product, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("[CATALOG] Skipping malformed row %d: %v", line, err)
			continue
		}

		price, err := parseFloatField(record, columns.price)
		if err != nil {
			log.Printf("[CATALOG] Skipping row %d: bad price: %v", line, err)
			continue
		}

		product := domain.Product{
			Category: field(record, columns.category),
			Name:     field(record, columns.name),
			Price:    price,
			PackSize: field(record, columns.packSize),
		}
		if v, err := parseFloatField(record, columns.originalPrice); err == nil {
			product.OriginalPrice = v
		}
		if v, err := parseFloatField(record, columns.rating); err == nil {
			product.Rating = v
		}
		products = append(products, product)
	}

	return products, nil
}

type columnIndexes struct {
	category      int
	name          int
	price         int
	originalPrice int
	rating        int
	packSize      int
}

func mapColumns(header []string) (columnIndexes, error) {
	columns := columnIndexes{
		category:      -1,
		name:          -1,
		price:         -1,
		originalPrice: -1,
		rating:        -1,
		packSize:      -1,
	}
	for i, raw := range header {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "category":
			columns.category = i
		case "product_name", "name":
			columns.name = i
		case "price":
			columns.price = i
		case "original_price":
			columns.originalPrice = i
		case "rating":
			columns.rating = i
		case "packsize", "pack_size":
			columns.packSize = i
		}
	}
	if columns.name == -1 || columns.price == -1 {
		return columns, fmt.Errorf("catalog header must include product_name and price, got: %v", header)
	}
	return columns, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseFloatField(record []string, idx int) (float64, error) {
	raw := field(record, idx)
	if raw == "" {
		return 0, fmt.Errorf("empty field")
	}
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
}
