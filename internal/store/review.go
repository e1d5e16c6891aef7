// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bankcat/internal/models"
)

// ReviewStore manages product reviews.
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore returns a new ReviewStore.
func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewColumns = `id, user_id, product_id, rating, comment, created_at, updated_at`

func scanReview(scanner interface{ Scan(...any) error }) (*models.Review, error) {
	var r models.Review
	err := scanner.Scan(
		&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByProduct returns all reviews for a product, newest first.
func (s *ReviewStore) ListByProduct(productID string) ([]models.Review, error) {
	rows, err := s.db.Query(`
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var items []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// AverageRating returns the mean rating for a product, 0 when unreviewed.
func (s *ReviewStore) AverageRating(productID string) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT AVG(rating) FROM reviews WHERE product_id = $1`, productID,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	return avg.Float64, nil
}

// FindByID retrieves a review by ID. Returns nil if not found.
func (s *ReviewStore) FindByID(id uuid.UUID) (*models.Review, error) {
	row := s.db.QueryRow(`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find review by id: %w", err)
	}
	return r, nil
}

// FindByUserAndProduct retrieves a user's review of a product. Returns
// nil if the user has not reviewed it. This is the "one review per
// user per product" pre-check.
func (s *ReviewStore) FindByUserAndProduct(userID uuid.UUID, productID string) (*models.Review, error) {
	row := s.db.QueryRow(`
		SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find review by user and product: %w", err)
	}
	return r, nil
}

// Create inserts a new review and returns it.
func (s *ReviewStore) Create(r *models.Review) (*models.Review, error) {
	row := s.db.QueryRow(`
		INSERT INTO reviews (user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING `+reviewColumns,
		r.UserID, r.ProductID, r.Rating, r.Comment,
	)
	result, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return result, nil
}

// Update modifies the rating and comment of an existing review.
func (s *ReviewStore) Update(r *models.Review) error {
	_, err := s.db.Exec(`
		UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW()
		WHERE id = $3
	`, r.Rating, r.Comment, r.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// Delete removes a review by ID.
func (s *ReviewStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
