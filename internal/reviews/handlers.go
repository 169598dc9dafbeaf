// Package reviews handles customer product reviews.
package reviews

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/threadline/workwear-api/internal/common"
	"github.com/threadline/workwear-api/internal/store"
)

// Handler serves product review endpoints.
type Handler struct {
	Store          *store.Store
	Validate       *validator.Validate
	DefaultPerPage int
}

// NewHandler builds a review handler with its request validator.
func NewHandler(st *store.Store, defaultPerPage int) *Handler {
	return &Handler{Store: st, Validate: validator.New(), DefaultPerPage: defaultPerPage}
}

type createRequest struct {
	Author  string `json:"author" validate:"required,min=2,max=120"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// View is the API shape of a review.
type View struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Create handles POST /products/{slug}/reviews.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "review store not configured", nil)
		return
	}
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid review", map[string]any{"error": err.Error()})
		return
	}
	review, err := h.Store.CreateReview(r.Context(), store.Review{
		ProductID: product.ID,
		Author:    strings.TrimSpace(req.Author),
		Rating:    int32(req.Rating),
		Comment:   store.Text(strings.TrimSpace(req.Comment)),
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create review", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toView(review)})
}

// List handles GET /products/{slug}/reviews.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "review store not configured", nil)
		return
	}
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	page, perPage := common.ParsePagination(r, h.DefaultPerPage)
	offset := (page - 1) * perPage

	rows, err := h.Store.ListReviews(r.Context(), product.ID, perPage, offset)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list reviews", nil)
		return
	}
	stats, err := h.Store.GetReviewStats(r.Context(), product.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load review stats", nil)
		return
	}
	out := make([]View, 0, len(rows))
	for _, row := range rows {
		out = append(out, toView(row))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": out,
		"stats": map[string]any{
			"count":   stats.Count,
			"average": stats.Average,
		},
	})
}

func (h *Handler) loadProduct(w http.ResponseWriter, r *http.Request) (store.Product, bool) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "slug is required", nil)
		return store.Product{}, false
	}
	product, err := h.Store.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return store.Product{}, false
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load product", nil)
		return store.Product{}, false
	}
	return product, true
}

func toView(r store.Review) View {
	v := View{
		ID:        store.UUIDString(r.ID),
		ProductID: store.UUIDString(r.ProductID),
		Author:    r.Author,
		Rating:    int(r.Rating),
		CreatedAt: r.CreatedAt,
	}
	if r.Comment.Valid {
		v.Comment = r.Comment.String
	}
	return v
}
