// Package order exposes read access to placed orders.
package order

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/threadline/workwear-api/internal/common"
	"github.com/threadline/workwear-api/internal/store"
)

// Handler serves order history endpoints.
type Handler struct {
	Store          *store.Store
	DefaultPerPage int
}

// ItemView is one line of an order response.
type ItemView struct {
	ProductID string `json:"product_id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// View is the API shape of an order.
type View struct {
	ID               string     `json:"id"`
	Status           string     `json:"status"`
	Currency         string     `json:"currency"`
	CustomerEmail    string     `json:"customer_email"`
	CustomerName     string     `json:"customer_name"`
	Items            []ItemView `json:"items,omitempty"`
	Subtotal         string     `json:"subtotal"`
	Discount         string     `json:"discount"`
	ShippingCost     string     `json:"shipping_cost"`
	ShippingDiscount string     `json:"shipping_discount"`
	Total            string     `json:"total"`
	AppliedCode      *string    `json:"applied_code"`
	CreatedAt        time.Time  `json:"created_at"`
}

// List handles GET /orders?email=... returning a customer's order history.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "email query parameter is required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, h.DefaultPerPage)
	offset := (page - 1) * perPage

	orders, err := h.Store.ListOrdersByEmail(r.Context(), email, perPage, offset)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list orders", nil)
		return
	}
	out := make([]View, 0, len(orders))
	for _, o := range orders {
		out = append(out, toView(o, nil))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// Get handles GET /orders/{orderID} returning one order with its items.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store not configured", nil)
		return
	}
	id, err := store.ParseUUID(chi.URLParam(r, "orderID"))
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		return
	}
	o, err := h.Store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order", nil)
		return
	}
	items, err := h.Store.ListOrderItems(r.Context(), o.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order items", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toView(o, items)})
}

func toView(o store.Order, items []store.OrderItem) View {
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
	if o.AppliedCode.Valid {
		code := o.AppliedCode.String
		applied = &code
	}
	return View{
		ID:               store.UUIDString(o.ID),
		Status:           o.Status,
		Currency:         o.Currency,
		CustomerEmail:    o.CustomerEmail,
		CustomerName:     o.CustomerName,
		Items:            views,
		Subtotal:         o.Subtotal.StringFixed(2),
		Discount:         o.Discount.StringFixed(2),
		ShippingCost:     o.ShippingCost.StringFixed(2),
		ShippingDiscount: o.ShippingDiscount.StringFixed(2),
		Total:            o.Total.StringFixed(2),
		AppliedCode:      applied,
		CreatedAt:        o.CreatedAt,
	}
}
