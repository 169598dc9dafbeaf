package store

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Product is a catalog row.
type Product struct {
	ID           pgtype.UUID
	Slug         string
	Name         string
	Description  string
	Category     string
	UnitPrice    decimal.Decimal
	Customizable bool
	CreatedAt    time.Time
}

const productColumns = `id, slug, name, description, category, unit_price, customizable, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.Category, &p.UnitPrice, &p.Customizable, &p.CreatedAt)
	return p, err
}

// ListProducts returns a page of products, optionally filtered by category.
func (s *Store) ListProducts(ctx context.Context, category string, limit, offset int) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE lower(category) = lower($1)`
		args = append(args, category)
	}
	query += ` ORDER BY name LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountProducts returns the total product count for the optional category filter.
func (s *Store) CountProducts(ctx context.Context, category string) (int, error) {
	query := `SELECT count(*) FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE lower(category) = lower($1)`
		args = append(args, category)
	}
	var n int
	err := s.db.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// GetProductBySlug fetches one product by its URL slug.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	return scanProduct(row)
}

// GetProductByID fetches one product by id.
func (s *Store) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// CategoryCount pairs a category name with its product count.
type CategoryCount struct {
	Category string
	Count    int
}

// ListCategories returns every category with its product count.
func (s *Store) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.Query(ctx, `SELECT category, count(*) FROM products GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateProduct inserts a product, updating it in place when the slug exists.
func (s *Store) CreateProduct(ctx context.Context, p Product) (Product, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO products (slug, name, description, category, unit_price, customizable)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			unit_price = EXCLUDED.unit_price,
			customizable = EXCLUDED.customizable
		RETURNING `+productColumns,
		p.Slug, p.Name, p.Description, p.Category, p.UnitPrice, p.Customizable)
	return scanProduct(row)
}
