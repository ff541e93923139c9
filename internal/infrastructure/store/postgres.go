package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/shelfmetrics/backend/internal/domain"
)

// PostgresStore persists the analytics table in PostgreSQL. Absent derived
// values are stored as NULL so that parse failure stays distinguishable from
// zero in downstream SQL.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the database and ensures the schema exists.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id                   SERIAL PRIMARY KEY,
			category             TEXT NOT NULL DEFAULT '',
			product_name         TEXT NOT NULL,
			price                DOUBLE PRECISION NOT NULL,
			packsize             TEXT NOT NULL DEFAULT '',
			quantity             DOUBLE PRECISION,
			unit                 TEXT,
			unit_price           DOUBLE PRECISION,
			rating               DOUBLE PRECISION NOT NULL DEFAULT 0,
			original_price       DOUBLE PRECISION NOT NULL DEFAULT 0,
			discount             DOUBLE PRECISION,
			discount_percentage  DOUBLE PRECISION,
			price_per_100g       DOUBLE PRECISION,
			value_label          TEXT
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ReplaceAll swaps the whole table for the given rows in one transaction.
func (s *PostgresStore) ReplaceAll(ctx context.Context, rows []domain.PricedProduct) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (
			category, product_name, price, packsize, quantity, unit,
			unit_price, rating, original_price, discount,
			discount_percentage, price_per_100g, value_label
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range rows {
		r := &rows[i]
		_, err := stmt.ExecContext(ctx,
			r.Category,
			r.ProductName,
			r.Price,
			r.PackSize,
			nullFloat(r.Quantity),
			nullString(string(r.Unit)),
			nullFloat(r.UnitPrice),
			r.Rating,
			r.OriginalPrice,
			nullFloat(r.Discount),
			nullFloat(r.DiscountPercentage),
			nullFloat(r.PricePer100g),
			nullString(r.ValueLabel),
		)
		if err != nil {
			return fmt.Errorf("failed to insert %q: %w", r.ProductName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns rows in insertion order. limit <= 0 means no limit.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]domain.PricedProduct, error) {
	query := `
		SELECT category, product_name, price, packsize, quantity, unit,
		       unit_price, rating, original_price, discount,
		       discount_percentage, price_per_100g, value_label
		FROM products
		ORDER BY id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	} else if offset > 0 {
		query += ` OFFSET $1`
		args = append(args, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []domain.PricedProduct
	for rows.Next() {
		var (
			p                   domain.PricedProduct
			unit, valueLabel    sql.NullString
			quantity, unitPrice sql.NullFloat64
			discount, discPct   sql.NullFloat64
			per100g             sql.NullFloat64
		)
		err := rows.Scan(
			&p.Category, &p.ProductName, &p.Price, &p.PackSize,
			&quantity, &unit, &unitPrice, &p.Rating, &p.OriginalPrice,
			&discount, &discPct, &per100g, &valueLabel,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		if quantity.Valid {
			v := quantity.Float64
			p.Quantity = &v
		}
		if unit.Valid {
			p.Unit = domain.Unit(unit.String)
		}
		if unitPrice.Valid {
			v := unitPrice.Float64
			p.UnitPrice = &v
		}
		if discount.Valid {
			v := discount.Float64
			p.Discount = &v
		}
		if discPct.Valid {
			v := discPct.Float64
			p.DiscountPercentage = &v
		}
		if per100g.Valid {
			v := per100g.Float64
			p.PricePer100g = &v
		}
		if valueLabel.Valid {
			p.ValueLabel = valueLabel.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of persisted rows.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
