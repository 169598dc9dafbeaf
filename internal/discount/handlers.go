package discount

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/common"
	"github.com/threadline/workwear-api/internal/obs"
)

// Handler exposes the discount preview and listing endpoints.
type Handler struct {
	Catalog *Catalog
}

type previewRequest struct {
	Code         string   `json:"code"`
	Subtotal     string   `json:"subtotal"`
	ShippingCost string   `json:"shipping_cost"`
	Categories   []string `json:"categories"`
	FirstOrder   bool     `json:"first_order"`
}

type previewResponse struct {
	Code             string `json:"code"`
	Kind             Kind   `json:"kind"`
	Description      string `json:"description"`
	Subtotal         string `json:"subtotal"`
	DiscountAmount   string `json:"discount_amount"`
	ShippingDiscount string `json:"shipping_discount"`
	FinalTotal       string `json:"final_total"`
}

type codeSummary struct {
	Code        string `json:"code"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
}

// Preview validates a code against the supplied order context and returns
// the amounts it would remove. Nothing is persisted.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount catalog not configured", nil)
		return
	}
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	subtotal, err := decimal.NewFromString(req.Subtotal)
	if err != nil || subtotal.IsNegative() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "subtotal must be a non-negative amount", nil)
		return
	}
	shipping := decimal.Zero
	if req.ShippingCost != "" {
		shipping, err = decimal.NewFromString(req.ShippingCost)
		if err != nil || shipping.IsNegative() {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "shipping_cost must be a non-negative amount", nil)
			return
		}
	}

	code, err := h.Catalog.Validate(req.Code, subtotal, req.Categories, req.FirstOrder)
	if err != nil {
		WriteValidationError(w, err)
		return
	}
	countEvaluation("accepted")

	app := Apply(code, subtotal, shipping)
	common.JSON(w, http.StatusOK, map[string]any{"data": previewResponse{
		Code:             code.Code,
		Kind:             code.Kind,
		Description:      code.Description,
		Subtotal:         app.Subtotal.StringFixed(2),
		DiscountAmount:   app.DiscountAmount.StringFixed(2),
		ShippingDiscount: app.ShippingDiscount.StringFixed(2),
		FinalTotal:       app.FinalTotal.StringFixed(2),
	}})
}

// List returns the publicly advertised discount codes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount catalog not configured", nil)
		return
	}
	codes := h.Catalog.Codes()
	out := make([]codeSummary, 0, len(codes))
	for _, c := range codes {
		out = append(out, codeSummary{Code: c.Code, Kind: c.Kind, Description: c.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// WriteValidationError maps a discount validation failure to the canonical
// error response and records the outcome metric.
func WriteValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyCode):
		countEvaluation("empty_code")
		common.JSONError(w, http.StatusBadRequest, "EMPTY_CODE", err.Error(), nil)
	case errors.Is(err, ErrUnknownCode):
		countEvaluation("unknown_code")
		common.JSONError(w, http.StatusNotFound, "UNKNOWN_CODE", err.Error(), nil)
	case errors.Is(err, ErrSubtotalTooLow):
		countEvaluation("subtotal_too_low")
		common.JSONError(w, http.StatusUnprocessableEntity, "SUBTOTAL_TOO_LOW", err.Error(), nil)
	case errors.Is(err, ErrCategoryNotEligible):
		countEvaluation("category_not_eligible")
		common.JSONError(w, http.StatusUnprocessableEntity, "CATEGORY_NOT_ELIGIBLE", err.Error(), nil)
	case errors.Is(err, ErrNotFirstOrder):
		countEvaluation("not_first_order")
		common.JSONError(w, http.StatusUnprocessableEntity, "NOT_FIRST_ORDER", err.Error(), nil)
	default:
		countEvaluation("error")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount validation failed", nil)
	}
}

func countEvaluation(result string) {
	if obs.DiscountEvaluationsTotal != nil {
		obs.DiscountEvaluationsTotal.WithLabelValues(result).Inc()
	}
}
