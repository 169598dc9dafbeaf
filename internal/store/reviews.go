package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Review is a customer product review row.
type Review struct {
	ID        pgtype.UUID
	ProductID pgtype.UUID
	Author    string
	Rating    int32
	Comment   pgtype.Text
	CreatedAt time.Time
}

// CreateReview inserts a review.
func (s *Store) CreateReview(ctx context.Context, r Review) (Review, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO reviews (product_id, author, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_id, author, rating, comment, created_at`,
		r.ProductID, r.Author, r.Rating, r.Comment)
	var out Review
	err := row.Scan(&out.ID, &out.ProductID, &out.Author, &out.Rating, &out.Comment, &out.CreatedAt)
	return out, err
}

// ListReviews returns a product's reviews, newest first.
func (s *Store) ListReviews(ctx context.Context, productID pgtype.UUID, limit, offset int) ([]Review, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, product_id, author, rating, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Author, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReviewStats summarizes a product's review ratings.
type ReviewStats struct {
	Count   int
	Average float64
}

// GetReviewStats computes the review count and average rating for a product.
func (s *Store) GetReviewStats(ctx context.Context, productID pgtype.UUID) (ReviewStats, error) {
	var stats ReviewStats
	err := s.db.QueryRow(ctx, `
		SELECT count(*), coalesce(avg(rating), 0)
		FROM reviews
		WHERE product_id = $1`, productID).Scan(&stats.Count, &stats.Average)
	return stats, err
}
