// Package cart manages anonymous shopping carts and their discount state.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/discount"
	"github.com/threadline/workwear-api/internal/obs"
	"github.com/threadline/workwear-api/internal/pricing"
	"github.com/threadline/workwear-api/internal/store"
)

var (
	// ErrCartNotFound is returned when no cart exists for the given id.
	ErrCartNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when the cart has no such line item.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrProductNotFound is returned when the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")
)

// ItemView is the API shape of one cart line.
type ItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// PricingView is the API shape of a cart's computed totals.
type PricingView struct {
	Subtotal         string `json:"subtotal"`
	Discount         string `json:"discount"`
	ShippingCost     string `json:"shipping_cost"`
	ShippingDiscount string `json:"shipping_discount"`
	Total            string `json:"total"`
}

// View is the API shape of a cart.
type View struct {
	ID          string      `json:"id"`
	Items       []ItemView  `json:"items"`
	AppliedCode *string     `json:"applied_code"`
	Pricing     PricingView `json:"pricing"`
}

// Service coordinates cart persistence and pricing.
type Service struct {
	Store            *store.Store
	Codes            *discount.Catalog
	CartTTL          time.Duration
	ShippingFlatRate decimal.Decimal
	Now              func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create opens a new empty cart for the given anonymous id.
func (s *Service) Create(ctx context.Context, anonID string) (View, error) {
	if s == nil || s.Store == nil {
		return View{}, errors.New("cart service not configured")
	}
	expires := store.TimestamptzOf(s.now().Add(s.CartTTL))
	c, err := s.Store.CreateCart(ctx, store.Text(anonID), expires)
	if err != nil {
		return View{}, err
	}
	return s.buildView(ctx, c)
}

// Get loads a cart with its items and pricing preview.
func (s *Service) Get(ctx context.Context, cartID string) (View, error) {
	c, err := s.loadCart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	return s.buildView(ctx, c)
}

// AddItem puts a product into the cart, merging quantity with an existing line.
func (s *Service) AddItem(ctx context.Context, cartID, productSlug string, qty int) (View, error) {
	if qty < 1 {
		qty = 1
	}
	c, err := s.loadCart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	product, err := s.Store.GetProductBySlug(ctx, productSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrProductNotFound
		}
		return View{}, err
	}

	existing, err := s.Store.FindCartItemByProduct(ctx, c.ID, product.ID)
	switch {
	case err == nil:
		newQty := existing.Qty + int32(qty)
		subtotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(newQty)))
		if _, err := s.Store.UpdateCartItemQty(ctx, existing.ID, newQty, subtotal); err != nil {
			return View{}, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		subtotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		_, err = s.Store.CreateCartItem(ctx, store.CartItem{
			CartID:    c.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			Category:  product.Category,
			Qty:       int32(qty),
			UnitPrice: product.UnitPrice,
			Subtotal:  subtotal,
		})
		if err != nil {
			return View{}, err
		}
	default:
		return View{}, err
	}

	if err := s.touch(ctx, c.ID); err != nil {
		return View{}, err
	}
	return s.refresh(ctx, c.ID)
}

// UpdateItem rewrites a line's quantity. A quantity of zero removes the line.
func (s *Service) UpdateItem(ctx context.Context, cartID, itemID string, qty int) (View, error) {
	c, err := s.loadCart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	item, err := s.loadItem(ctx, c.ID, itemID)
	if err != nil {
		return View{}, err
	}
	if qty <= 0 {
		if err := s.Store.DeleteCartItem(ctx, item.ID, c.ID); err != nil {
			return View{}, err
		}
	} else {
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		if _, err := s.Store.UpdateCartItemQty(ctx, item.ID, int32(qty), subtotal); err != nil {
			return View{}, err
		}
	}
	if err := s.touch(ctx, c.ID); err != nil {
		return View{}, err
	}
	return s.refresh(ctx, c.ID)
}

// RemoveItem deletes one line from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) (View, error) {
	c, err := s.loadCart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	item, err := s.loadItem(ctx, c.ID, itemID)
	if err != nil {
		return View{}, err
	}
	if err := s.Store.DeleteCartItem(ctx, item.ID, c.ID); err != nil {
		return View{}, err
	}
	if err := s.touch(ctx, c.ID); err != nil {
		return View{}, err
	}
	return s.refresh(ctx, c.ID)
}

// ApplyCode validates a discount code against the current cart and records it.
// Applying a second code replaces the first; a cart carries at most one code.
func (s *Service) ApplyCode(ctx context.Context, cartID, code string, isFirstOrder bool) (View, error) {
	c, err := s.loadCart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	items, err := s.Store.ListCartItems(ctx, c.ID)
	if err != nil {
		return View{}, err
	}
	subtotal := itemsSubtotal(items)
	entry, err := s.Codes.Validate(code, subtotal, itemCategories(items), isFirstOrder)
	if err != nil {
		return View{}, err
	}
	if err := s.Store.SetCartCode(ctx, c.ID, store.Text(entry.Code)); err != nil {
		return View{}, err
	}
	if obs.DiscountAppliedTotal != nil {
		obs.DiscountAppliedTotal.WithLabelValues(string(entry.Kind)).Inc()
	}
	return s.refresh(ctx, c.ID)
}

// RemoveCode clears any applied discount code.
func (s *Service) RemoveCode(ctx context.Context, cartID string) (View, error) {
	c, err := s.loadCart(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	if err := s.Store.SetCartCode(ctx, c.ID, pgtype.Text{}); err != nil {
		return View{}, err
	}
	return s.refresh(ctx, c.ID)
}

func (s *Service) loadCart(ctx context.Context, cartID string) (store.Cart, error) {
	if s == nil || s.Store == nil {
		return store.Cart{}, errors.New("cart service not configured")
	}
	id, err := store.ParseUUID(cartID)
	if err != nil {
		return store.Cart{}, ErrCartNotFound
	}
	c, err := s.Store.GetCartByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Cart{}, ErrCartNotFound
		}
		return store.Cart{}, err
	}
	if c.Expired(s.now()) {
		return store.Cart{}, ErrCartNotFound
	}
	return c, nil
}

func (s *Service) loadItem(ctx context.Context, cartID pgtype.UUID, itemID string) (store.CartItem, error) {
	id, err := store.ParseUUID(itemID)
	if err != nil {
		return store.CartItem{}, ErrItemNotFound
	}
	item, err := s.Store.GetCartItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.CartItem{}, ErrItemNotFound
		}
		return store.CartItem{}, err
	}
	if item.CartID != cartID {
		return store.CartItem{}, ErrItemNotFound
	}
	return item, nil
}

func (s *Service) touch(ctx context.Context, id pgtype.UUID) error {
	return s.Store.TouchCart(ctx, id, store.TimestamptzOf(s.now().Add(s.CartTTL)))
}

func (s *Service) refresh(ctx context.Context, id pgtype.UUID) (View, error) {
	c, err := s.Store.GetCartByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.buildView(ctx, c)
}

func (s *Service) buildView(ctx context.Context, c store.Cart) (View, error) {
	items, err := s.Store.ListCartItems(ctx, c.ID)
	if err != nil {
		return View{}, err
	}

	var code *discount.Code
	var appliedCode *string
	if c.AppliedCode.Valid {
		if entry, ok := s.Codes.Lookup(c.AppliedCode.String); ok {
			code = &entry
			applied := entry.Code
			appliedCode = &applied
		}
	}

	lines := make([]pricing.Item, 0, len(items))
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Item{Qty: int(it.Qty), UnitPrice: it.UnitPrice})
		views = append(views, ItemView{
			ID:        store.UUIDString(it.ID),
			ProductID: store.UUIDString(it.ProductID),
			Slug:      it.Slug,
			Name:      it.Name,
			Category:  it.Category,
			Qty:       int(it.Qty),
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal.StringFixed(2),
		})
	}

	shipping := s.ShippingFlatRate
	if len(items) == 0 {
		shipping = decimal.Zero
	}
	summary := pricing.Compute(lines, code, shipping)

	return View{
		ID:          store.UUIDString(c.ID),
		Items:       views,
		AppliedCode: appliedCode,
		Pricing: PricingView{
			Subtotal:         summary.Subtotal.StringFixed(2),
			Discount:         summary.Discount.StringFixed(2),
			ShippingCost:     summary.ShippingCost.StringFixed(2),
			ShippingDiscount: summary.ShippingDiscount.StringFixed(2),
			Total:            summary.Total.StringFixed(2),
		},
	}, nil
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
