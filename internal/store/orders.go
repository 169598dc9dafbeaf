package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Order is a placed order row.
type Order struct {
	ID               pgtype.UUID
	CustomerEmail    string
	CustomerName     string
	Status           string
	Currency         string
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	ShippingCost     decimal.Decimal
	ShippingDiscount decimal.Decimal
	Total            decimal.Decimal
	AppliedCode      pgtype.Text
	ShippingAddress  []byte
	CreatedAt        time.Time
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ID        pgtype.UUID
	OrderID   pgtype.UUID
	ProductID pgtype.UUID
	Name      string
	Slug      string
	Category  string
	Qty       int32
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

const orderColumns = `id, customer_email, customer_name, status, currency, subtotal, discount, shipping_cost, shipping_discount, total, applied_code, shipping_address, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerEmail, &o.CustomerName, &o.Status, &o.Currency,
		&o.Subtotal, &o.Discount, &o.ShippingCost, &o.ShippingDiscount, &o.Total,
		&o.AppliedCode, &o.ShippingAddress, &o.CreatedAt)
	return o, err
}

// CreateOrder inserts an order header.
func (s *Store) CreateOrder(ctx context.Context, o Order) (Order, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO orders (customer_email, customer_name, status, currency, subtotal, discount, shipping_cost, shipping_discount, total, applied_code, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+orderColumns,
		o.CustomerEmail, o.CustomerName, o.Status, o.Currency,
		o.Subtotal, o.Discount, o.ShippingCost, o.ShippingDiscount, o.Total,
		o.AppliedCode, o.ShippingAddress)
	return scanOrder(row)
}

// CreateOrderItem inserts one order line.
func (s *Store) CreateOrderItem(ctx context.Context, it OrderItem) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_items (order_id, product_id, name, slug, category, qty, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.OrderID, it.ProductID, it.Name, it.Slug, it.Category, it.Qty, it.UnitPrice, it.Subtotal)
	return err
}

// GetOrder fetches one order by id.
func (s *Store) GetOrder(ctx context.Context, id pgtype.UUID) (Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

// ListOrdersByEmail returns a customer's orders, newest first.
func (s *Store) ListOrdersByEmail(ctx context.Context, email string, limit, offset int) ([]Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE lower(customer_email) = lower($1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, email, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CountOrdersByEmail counts a customer's orders. A zero count marks the
// customer's next order as their first.
func (s *Store) CountOrdersByEmail(ctx context.Context, email string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM orders WHERE lower(customer_email) = lower($1)`, email).Scan(&n)
	return n, err
}

// ListOrderItems returns the lines of an order.
func (s *Store) ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, product_id, name, slug, category, qty, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Slug, &it.Category, &it.Qty, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
