// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"github.com/google/uuid"

	"bankcat/internal/models"
)

// ReviewInput carries the writable review fields.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ProductReviews is a product's review list with its average rating.
type ProductReviews struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
}

// ListReviews returns a product's reviews with the average rating.
func (s *Service) ListReviews(productID string) (*ProductReviews, error) {
	p, err := s.products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}

	reviews, err := s.reviews.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	avg, err := s.reviews.AverageRating(productID)
	if err != nil {
		return nil, err
	}
	return &ProductReviews{Reviews: reviews, AverageRating: avg}, nil
}

// CreateReview adds the user's review of a product. One review per
// (user, product); a second attempt is a validation error.
func (s *Service) CreateReview(userID uuid.UUID, productID string, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrValidation("Rating must be between 1 and 5", nil)
	}
	p, err := s.products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}

	existing, err := s.reviews.FindByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrValidation("You have already reviewed this product", nil)
	}

	return s.reviews.Create(&models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
}

// UpdateReview edits the user's own review.
func (s *Service) UpdateReview(userID, reviewID uuid.UUID, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrValidation("Rating must be between 1 and 5", nil)
	}
	r, err := s.reviews.FindByID(reviewID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.UserID != userID {
		return nil, ErrNotFound("Review not found")
	}

	r.Rating = in.Rating
	r.Comment = in.Comment
	if err := s.reviews.Update(r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReview removes a review. Admins may delete any review, users
// only their own.
func (s *Service) DeleteReview(userID, reviewID uuid.UUID, isAdmin bool) error {
	r, err := s.reviews.FindByID(reviewID)
	if err != nil {
		return err
	}
	if r == nil || (!isAdmin && r.UserID != userID) {
		return ErrNotFound("Review not found")
	}
	return s.reviews.Delete(reviewID)
}
