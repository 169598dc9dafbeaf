package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Cart is a shopping cart row.
type Cart struct {
	ID          pgtype.UUID
	AnonID      pgtype.Text
	AppliedCode pgtype.Text
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   pgtype.Timestamptz
}

// Expired reports whether the cart's TTL has lapsed. Carts without an
// expiry never expire.
func (c Cart) Expired(now time.Time) bool {
	return c.ExpiresAt.Valid && c.ExpiresAt.Time.Before(now)
}

// CartItem is one line in a cart.
type CartItem struct {
	ID        pgtype.UUID
	CartID    pgtype.UUID
	ProductID pgtype.UUID
	Name      string
	Slug      string
	Category  string
	Qty       int32
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

const cartColumns = `id, anon_id, applied_code, created_at, updated_at, expires_at`

const cartItemColumns = `id, cart_id, product_id, name, slug, category, qty, unit_price, subtotal`

func scanCart(row pgx.Row) (Cart, error) {
	var c Cart
	err := row.Scan(&c.ID, &c.AnonID, &c.AppliedCode, &c.CreatedAt, &c.UpdatedAt, &c.ExpiresAt)
	return c, err
}

func scanCartItem(row pgx.Row) (CartItem, error) {
	var it CartItem
	err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Name, &it.Slug, &it.Category, &it.Qty, &it.UnitPrice, &it.Subtotal)
	return it, err
}

// CreateCart inserts an empty cart.
func (s *Store) CreateCart(ctx context.Context, anonID pgtype.Text, expiresAt pgtype.Timestamptz) (Cart, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO carts (anon_id, expires_at)
		VALUES ($1, $2)
		RETURNING `+cartColumns, anonID, expiresAt)
	return scanCart(row)
}

// GetCartByID fetches a cart by id.
func (s *Store) GetCartByID(ctx context.Context, id pgtype.UUID) (Cart, error) {
	row := s.db.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id)
	return scanCart(row)
}

// GetActiveCartByAnon returns the newest unexpired cart for an anonymous id.
func (s *Store) GetActiveCartByAnon(ctx context.Context, anonID pgtype.Text, now time.Time) (Cart, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+cartColumns+` FROM carts
		WHERE anon_id = $1 AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC
		LIMIT 1`, anonID, now)
	return scanCart(row)
}

// TouchCart extends a cart's lifetime and bumps updated_at.
func (s *Store) TouchCart(ctx context.Context, id pgtype.UUID, expiresAt pgtype.Timestamptz) error {
	_, err := s.db.Exec(ctx, `UPDATE carts SET updated_at = now(), expires_at = $2 WHERE id = $1`, id, expiresAt)
	return err
}

// SetCartCode records the applied discount code; a NULL text clears it.
func (s *Store) SetCartCode(ctx context.Context, id pgtype.UUID, code pgtype.Text) error {
	_, err := s.db.Exec(ctx, `UPDATE carts SET applied_code = $2, updated_at = now() WHERE id = $1`, id, code)
	return err
}

// ListCartItems returns a cart's items in insertion order.
func (s *Store) ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]CartItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+cartItemColumns+` FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// FindCartItemByProduct returns a cart's line for the given product, if any.
func (s *Store) FindCartItemByProduct(ctx context.Context, cartID, productID pgtype.UUID) (CartItem, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+cartItemColumns+` FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	return scanCartItem(row)
}

// CreateCartItem inserts a cart line.
func (s *Store) CreateCartItem(ctx context.Context, it CartItem) (CartItem, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, name, slug, category, qty, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+cartItemColumns,
		it.CartID, it.ProductID, it.Name, it.Slug, it.Category, it.Qty, it.UnitPrice, it.Subtotal)
	return scanCartItem(row)
}

// UpdateCartItemQty rewrites a line's quantity and subtotal.
func (s *Store) UpdateCartItemQty(ctx context.Context, id pgtype.UUID, qty int32, subtotal decimal.Decimal) (CartItem, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE cart_items SET qty = $2, subtotal = $3
		WHERE id = $1
		RETURNING `+cartItemColumns, id, qty, subtotal)
	return scanCartItem(row)
}

// GetCartItemByID fetches one cart line.
func (s *Store) GetCartItemByID(ctx context.Context, id pgtype.UUID) (CartItem, error) {
	row := s.db.QueryRow(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1`, id)
	return scanCartItem(row)
}

// DeleteCartItem removes one line from a cart.
func (s *Store) DeleteCartItem(ctx context.Context, id, cartID pgtype.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, id, cartID)
	return err
}

// ClearCartItems removes every line from a cart.
func (s *Store) ClearCartItems(ctx context.Context, cartID pgtype.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}
