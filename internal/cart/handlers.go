package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/threadline/workwear-api/internal/common"
	"github.com/threadline/workwear-api/internal/discount"
)

// Handler exposes the cart endpoints.
type Handler struct {
	Svc *Service
}

type createRequest struct {
	AnonID string `json:"anon_id"`
}

type addItemRequest struct {
	ProductSlug string `json:"product_slug"`
	Qty         int    `json:"qty"`
}

type updateItemRequest struct {
	Qty int `json:"qty"`
}

type applyCodeRequest struct {
	Code       string `json:"code"`
	FirstOrder bool   `json:"first_order"`
}

// Create handles POST /carts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var req createRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	view, err := h.Svc.Create(r.Context(), strings.TrimSpace(req.AnonID))
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create cart", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": view})
}

// Get handles GET /carts/{cartID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.Get(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// AddItem handles POST /carts/{cartID}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(req.ProductSlug) == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "product_slug is required", nil)
		return
	}
	view, err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "cartID"), req.ProductSlug, req.Qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// UpdateItem handles PATCH /carts/{cartID}/items/{itemID}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	view, err := h.Svc.UpdateItem(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "itemID"), req.Qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// RemoveItem handles DELETE /carts/{cartID}/items/{itemID}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// ApplyCode handles POST /carts/{cartID}/discount. Re-applying replaces any
// previously applied code.
func (h *Handler) ApplyCode(w http.ResponseWriter, r *http.Request) {
	var req applyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	view, err := h.Svc.ApplyCode(r.Context(), chi.URLParam(r, "cartID"), req.Code, req.FirstOrder)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// RemoveCode handles DELETE /carts/{cartID}/discount.
func (h *Handler) RemoveCode(w http.ResponseWriter, r *http.Request) {
	view, err := h.Svc.RemoveCode(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCartNotFound):
		common.JSONError(w, http.StatusNotFound, "CART_NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrItemNotFound):
		common.JSONError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "cart item not found", nil)
	case errors.Is(err, ErrProductNotFound):
		common.JSONError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found", nil)
	case errors.Is(err, discount.ErrEmptyCode),
		errors.Is(err, discount.ErrUnknownCode),
		errors.Is(err, discount.ErrSubtotalTooLow),
		errors.Is(err, discount.ErrCategoryNotEligible),
		errors.Is(err, discount.ErrNotFirstOrder):
		discount.WriteValidationError(w, err)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart operation failed", nil)
	}
}
