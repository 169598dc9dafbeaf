// Package catalog serves the product listing and detail surface.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/threadline/workwear-api/internal/obs"
	"github.com/threadline/workwear-api/internal/store"
)

// ErrNotFound is returned when a product slug does not exist.
var ErrNotFound = errors.New("product not found")

// Store is the subset of the data layer the catalog reads from.
type Store interface {
	ListProducts(ctx context.Context, category string, limit, offset int) ([]store.Product, error)
	CountProducts(ctx context.Context, category string) (int, error)
	GetProductBySlug(ctx context.Context, slug string) (store.Product, error)
	GetReviewStats(ctx context.Context, productID pgtype.UUID) (store.ReviewStats, error)
	ListCategories(ctx context.Context) ([]store.CategoryCount, error)
}

// Product is the API representation of a catalog product.
type Product struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	UnitPrice    string `json:"unit_price"`
	Customizable bool   `json:"customizable"`
}

// ProductDetail adds review aggregates to a product.
type ProductDetail struct {
	Product
	ReviewCount   int     `json:"review_count"`
	ReviewAverage float64 `json:"review_average"`
}

// Page is a paged product listing.
type Page struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalItems int       `json:"total_items"`
}

// Category pairs a name with its product count.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Service reads products through an optional Redis cache.
type Service struct {
	Store Store
	Cache *Cache
}

// List returns one page of products, optionally filtered by category.
func (s *Service) List(ctx context.Context, category string, page, perPage int) (Page, error) {
	if s == nil || s.Store == nil {
		return Page{}, errors.New("catalog service not configured")
	}
	key := fmt.Sprintf("catalog:list:%s:%d:%d", category, page, perPage)
	var cached Page
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		countCache("hit")
		return cached, nil
	}
	countCache("miss")

	offset := (page - 1) * perPage
	rows, err := s.Store.ListProducts(ctx, category, perPage, offset)
	if err != nil {
		return Page{}, err
	}
	total, err := s.Store.CountProducts(ctx, category)
	if err != nil {
		return Page{}, err
	}
	out := Page{Items: make([]Product, 0, len(rows)), Page: page, PerPage: perPage, TotalItems: total}
	for _, row := range rows {
		out.Items = append(out.Items, toProduct(row))
	}
	_ = s.Cache.SetJSON(ctx, key, out)
	return out, nil
}

// GetBySlug returns a single product with its review aggregates.
func (s *Service) GetBySlug(ctx context.Context, slug string) (ProductDetail, error) {
	if s == nil || s.Store == nil {
		return ProductDetail{}, errors.New("catalog service not configured")
	}
	key := "catalog:product:" + slug
	var cached ProductDetail
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		countCache("hit")
		return cached, nil
	}
	countCache("miss")

	row, err := s.Store.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductDetail{}, ErrNotFound
		}
		return ProductDetail{}, err
	}
	stats, err := s.Store.GetReviewStats(ctx, row.ID)
	if err != nil {
		return ProductDetail{}, err
	}
	detail := ProductDetail{
		Product:       toProduct(row),
		ReviewCount:   stats.Count,
		ReviewAverage: stats.Average,
	}
	_ = s.Cache.SetJSON(ctx, key, detail)
	return detail, nil
}

// Categories lists every product category with counts.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("catalog service not configured")
	}
	key := "catalog:categories"
	var cached []Category
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		countCache("hit")
		return cached, nil
	}
	countCache("miss")

	rows, err := s.Store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, Category{Name: row.Category, Count: row.Count})
	}
	_ = s.Cache.SetJSON(ctx, key, out)
	return out, nil
}

func toProduct(p store.Product) Product {
	return Product{
		ID:           store.UUIDString(p.ID),
		Slug:         p.Slug,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		UnitPrice:    p.UnitPrice.StringFixed(2),
		Customizable: p.Customizable,
	}
}

func countCache(result string) {
	if obs.CatalogCacheTotal != nil {
		obs.CatalogCacheTotal.WithLabelValues(result).Inc()
	}
}

// clampPerPage keeps page sizes within configured bounds.
func clampPerPage(perPage, def, max int) int {
	if perPage <= 0 {
		return def
	}
	if max > 0 && perPage > max {
		return max
	}
	return perPage
}
