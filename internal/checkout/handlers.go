package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/threadline/workwear-api/internal/common"
	"github.com/threadline/workwear-api/internal/discount"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// NewHandler builds a checkout handler with its request validator.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, Validate: validator.New()}
}

type placeOrderRequest struct {
	CartID        string  `json:"cart_id" validate:"required,uuid4"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerName  string  `json:"customer_name" validate:"required"`
	Address       Address `json:"shipping_address" validate:"required"`
}

// PlaceOrder handles POST /checkout.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid checkout request", map[string]any{"error": err.Error()})
		return
	}

	order, err := h.Svc.PlaceOrder(r.Context(), Request{
		CartID:        req.CartID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Address:       req.Address,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": order})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCartNotFound):
		common.JSONError(w, http.StatusNotFound, "CART_NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart has no items", nil)
	case errors.Is(err, discount.ErrEmptyCode),
		errors.Is(err, discount.ErrUnknownCode),
		errors.Is(err, discount.ErrSubtotalTooLow),
		errors.Is(err, discount.ErrCategoryNotEligible),
		errors.Is(err, discount.ErrNotFirstOrder):
		discount.WriteValidationError(w, err)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to place order", nil)
	}
}
