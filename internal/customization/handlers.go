package customization

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/common"
	"github.com/threadline/workwear-api/internal/obs"
)

// Handler exposes the customization quote endpoint.
type Handler struct {
	PerAdditionalLogoFee decimal.Decimal
	Validate             *validator.Validate
}

// NewHandler builds a quote handler with its request validator.
func NewHandler(perAdditionalLogoFee decimal.Decimal) *Handler {
	return &Handler{
		PerAdditionalLogoFee: perAdditionalLogoFee,
		Validate:             validator.New(),
	}
}

type quoteRequest struct {
	Method              Method      `json:"method" validate:"required,oneof=print embroidery"`
	SetupOption         SetupOption `json:"setup_option" validate:"omitempty"`
	IsBundle            bool        `json:"is_bundle"`
	BundleItemCount     int         `json:"bundle_item_count" validate:"min=0"`
	Placements          []Position  `json:"placements" validate:"required,min=1,dive,required"`
	AdditionalLogoCount int         `json:"additional_logo_count" validate:"min=0"`
}

type placementQuote struct {
	Position Position `json:"position"`
	Cost     string   `json:"cost"`
}

type quoteResponse struct {
	Method            Method           `json:"method"`
	SetupFee          string           `json:"setup_fee"`
	Placements        []placementQuote `json:"placements"`
	AdditionalLogoFee string           `json:"additional_logo_fee"`
	TotalCost         string           `json:"total_cost"`
}

// Quote handles POST /customization/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		countQuote("bad_request")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		countQuote("bad_request")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid quote request", map[string]any{"error": err.Error()})
		return
	}
	if req.IsBundle && req.BundleItemCount < 1 {
		countQuote("bad_request")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "bundle_item_count must be at least 1 for bundles", nil)
		return
	}

	placements := make([]placementQuote, 0, len(req.Placements))
	costs := make([]decimal.Decimal, 0, len(req.Placements))
	for _, pos := range req.Placements {
		cost, err := PlacementPrice(pos, req.Method, req.IsBundle, req.BundleItemCount)
		if err != nil {
			if errors.Is(err, ErrUnknownPosition) {
				countQuote("unknown_position")
				common.JSONError(w, http.StatusUnprocessableEntity, "UNKNOWN_POSITION", "unknown placement position", map[string]any{"position": pos})
				return
			}
			countQuote("error")
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to price placement", nil)
			return
		}
		costs = append(costs, cost)
		placements = append(placements, placementQuote{Position: pos, Cost: cost.StringFixed(2)})
	}

	setupFee := SetupFee(req.Method, req.SetupOption)
	additionalFee := h.PerAdditionalLogoFee.Mul(decimal.NewFromInt(int64(req.AdditionalLogoCount)))
	total := TotalCost(setupFee, costs, req.AdditionalLogoCount, h.PerAdditionalLogoFee)

	countQuote("accepted")
	common.JSON(w, http.StatusOK, map[string]any{"data": quoteResponse{
		Method:            req.Method,
		SetupFee:          setupFee.StringFixed(2),
		Placements:        placements,
		AdditionalLogoFee: additionalFee.StringFixed(2),
		TotalCost:         total.StringFixed(2),
	}})
}

func countQuote(result string) {
	if obs.CustomizationQuotesTotal != nil {
		obs.CustomizationQuotesTotal.WithLabelValues(result).Inc()
	}
}
