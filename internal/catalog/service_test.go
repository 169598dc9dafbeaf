package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/store"
)

type fakeStore struct {
	product    store.Product
	productErr error
	stats      store.ReviewStats
}

func (f *fakeStore) ListProducts(context.Context, string, int, int) ([]store.Product, error) {
	return nil, nil
}

func (f *fakeStore) CountProducts(context.Context, string) (int, error) { return 0, nil }

func (f *fakeStore) GetProductBySlug(context.Context, string) (store.Product, error) {
	return f.product, f.productErr
}

func (f *fakeStore) GetReviewStats(context.Context, pgtype.UUID) (store.ReviewStats, error) {
	return f.stats, nil
}

func (f *fakeStore) ListCategories(context.Context) ([]store.CategoryCount, error) {
	return nil, nil
}

func TestGetBySlugUnknownProduct(t *testing.T) {
	svc := &Service{Store: &fakeStore{productErr: pgx.ErrNoRows}}

	_, err := svc.GetBySlug(context.Background(), "no-such-slug")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetBySlugStoreOutage(t *testing.T) {
	outage := errors.New("connection refused")
	svc := &Service{Store: &fakeStore{productErr: outage}}

	_, err := svc.GetBySlug(context.Background(), "hi-vis-polo")
	if errors.Is(err, ErrNotFound) {
		t.Fatal("store outage must not render as not-found")
	}
	if !errors.Is(err, outage) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
}

func TestGetBySlugIncludesReviewStats(t *testing.T) {
	svc := &Service{Store: &fakeStore{
		product: store.Product{
			Slug:      "hi-vis-polo",
			Name:      "Hi-Vis Work Polo",
			Category:  "hi-vis",
			UnitPrice: decimal.RequireFromString("24.99"),
		},
		stats: store.ReviewStats{Count: 4, Average: 4.5},
	}}

	detail, err := svc.GetBySlug(context.Background(), "hi-vis-polo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.UnitPrice != "24.99" {
		t.Fatalf("unexpected unit price %q", detail.UnitPrice)
	}
	if detail.ReviewCount != 4 || detail.ReviewAverage != 4.5 {
		t.Fatalf("unexpected review stats: %+v", detail)
	}
}
