// Package checkout turns a cart into a placed order.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/discount"
	"github.com/threadline/workwear-api/internal/notify"
	"github.com/threadline/workwear-api/internal/obs"
	"github.com/threadline/workwear-api/internal/pricing"
	"github.com/threadline/workwear-api/internal/store"
)

var (
	// ErrCartNotFound is returned when the cart id is unknown or expired.
	ErrCartNotFound = errors.New("cart not found")
	// ErrEmptyCart is returned when checkout is attempted on a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// Address is the shipping destination captured at checkout.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Request carries everything needed to place an order.
type Request struct {
	CartID        string
	CustomerEmail string
	CustomerName  string
	Address       Address
}

// ItemView is one line of a placed order.
type ItemView struct {
	ProductID string `json:"product_id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// OrderView is the API shape of a placed order.
type OrderView struct {
	ID               string     `json:"id"`
	Status           string     `json:"status"`
	Currency         string     `json:"currency"`
	CustomerEmail    string     `json:"customer_email"`
	CustomerName     string     `json:"customer_name"`
	Items            []ItemView `json:"items"`
	Subtotal         string     `json:"subtotal"`
	Discount         string     `json:"discount"`
	ShippingCost     string     `json:"shipping_cost"`
	ShippingDiscount string     `json:"shipping_discount"`
	Total            string     `json:"total"`
	AppliedCode      *string    `json:"applied_code"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Service places orders from carts inside a single transaction.
type Service struct {
	Pool             *pgxpool.Pool
	Store            *store.Store
	Codes            *discount.Catalog
	Enqueuer         *notify.Enqueuer
	ShippingFlatRate decimal.Decimal
	Currency         string
	Log              zerolog.Logger
	Now              func() time.Time
}

// PlaceOrder validates the cart, re-validates any applied discount code
// against the customer's real order history, prices the order and persists
// it. The cart is emptied on success.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (OrderView, error) {
	if s == nil || s.Pool == nil || s.Store == nil {
		return OrderView{}, errors.New("checkout service not configured")
	}
	cartID, err := store.ParseUUID(req.CartID)
	if err != nil {
		return OrderView{}, ErrCartNotFound
	}
	cart, err := s.Store.GetCartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OrderView{}, ErrCartNotFound
		}
		return OrderView{}, err
	}
	if cart.Expired(s.now()) {
		return OrderView{}, ErrCartNotFound
	}
	items, err := s.Store.ListCartItems(ctx, cart.ID)
	if err != nil {
		return OrderView{}, err
	}
	if len(items) == 0 {
		return OrderView{}, ErrEmptyCart
	}

	priorOrders, err := s.Store.CountOrdersByEmail(ctx, req.CustomerEmail)
	if err != nil {
		return OrderView{}, err
	}
	isFirstOrder := priorOrders == 0

	var code *discount.Code
	if cart.AppliedCode.Valid {
		entry, err := s.Codes.Validate(cart.AppliedCode.String, itemsSubtotal(items), itemCategories(items), isFirstOrder)
		if err != nil {
			return OrderView{}, fmt.Errorf("applied code no longer valid: %w", err)
		}
		code = &entry
	}

	lines := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Item{Qty: int(it.Qty), UnitPrice: it.UnitPrice})
	}
	summary := pricing.Compute(lines, code, s.ShippingFlatRate)

	address, err := json.Marshal(req.Address)
	if err != nil {
		return OrderView{}, fmt.Errorf("encode shipping address: %w", err)
	}

	appliedCode := pgtype.Text{}
	if code != nil {
		appliedCode = store.Text(code.Code)
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return OrderView{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txStore := s.Store.WithTx(tx)
	order, err := txStore.CreateOrder(ctx, store.Order{
		CustomerEmail:    req.CustomerEmail,
		CustomerName:     req.CustomerName,
		Status:           "PLACED",
		Currency:         s.Currency,
		Subtotal:         summary.Subtotal,
		Discount:         summary.Discount,
		ShippingCost:     summary.ShippingCost,
		ShippingDiscount: summary.ShippingDiscount,
		Total:            summary.Total,
		AppliedCode:      appliedCode,
		ShippingAddress:  address,
	})
	if err != nil {
		return OrderView{}, err
	}
	for _, it := range items {
		err = txStore.CreateOrderItem(ctx, store.OrderItem{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Slug:      it.Slug,
			Category:  it.Category,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
		if err != nil {
			return OrderView{}, err
		}
	}
	if err := txStore.ClearCartItems(ctx, cart.ID); err != nil {
		return OrderView{}, err
	}
	if err := txStore.SetCartCode(ctx, cart.ID, pgtype.Text{}); err != nil {
		return OrderView{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return OrderView{}, err
	}

	if obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.Inc()
	}
	if err := s.Enqueuer.OrderConfirmation(ctx, notify.OrderConfirmation{
		OrderID:       store.UUIDString(order.ID),
		CustomerEmail: order.CustomerEmail,
		CustomerName:  order.CustomerName,
		Total:         order.Total.StringFixed(2),
		Currency:      order.Currency,
	}); err != nil {
		// the order is already placed; log and move on
		s.Log.Error().Err(err).Str("order_id", store.UUIDString(order.ID)).Msg("enqueue order confirmation failed")
	}

	return toOrderView(order, items), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func toOrderView(order store.Order, items []store.CartItem) OrderView {
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, ItemView{
			ProductID: store.UUIDString(it.ProductID),
			Slug:      it.Slug,
			Name:      it.Name,
			Category:  it.Category,
			Qty:       int(it.Qty),
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal.StringFixed(2),
		})
	}
	var applied *string
	if order.AppliedCode.Valid {
		code := order.AppliedCode.String
		applied = &code
	}
	return OrderView{
		ID:               store.UUIDString(order.ID),
		Status:           order.Status,
		Currency:         order.Currency,
		CustomerEmail:    order.CustomerEmail,
		CustomerName:     order.CustomerName,
		Items:            views,
		Subtotal:         order.Subtotal.StringFixed(2),
		Discount:         order.Discount.StringFixed(2),
		ShippingCost:     order.ShippingCost.StringFixed(2),
		ShippingDiscount: order.ShippingDiscount.StringFixed(2),
		Total:            order.Total.StringFixed(2),
		AppliedCode:      applied,
		CreatedAt:        order.CreatedAt,
	}
}

func itemsSubtotal(items []store.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}

func itemCategories(items []store.CartItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}
