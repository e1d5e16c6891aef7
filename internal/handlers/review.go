// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"bankcat/internal/catalog"
	"bankcat/internal/middleware"
	"bankcat/internal/models"
)

// Reviews groups the product review handlers.
type Reviews struct {
	svc *catalog.Service
}

// NewReviews creates a new Reviews handler group.
func NewReviews(svc *catalog.Service) *Reviews {
	return &Reviews{svc: svc}
}

// ListByProduct returns the reviews of a product with the average
// rating. Public.
// GET /api/products/{id}/reviews
func (h *Reviews) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	reviews, err := h.svc.ListReviews(productID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, reviews)
}

// Create adds the caller's review of a product. One review per user
// and product.
// POST /api/products/{id}/reviews
func (h *Reviews) Create(w http.ResponseWriter, r *http.Request) {
	productID, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in catalog.ReviewInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	review, err := h.svc.CreateReview(mustUserID(r), productID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, review)
}

// Update modifies the caller's own review.
// PUT /api/reviews/{id}
func (h *Reviews) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in catalog.ReviewInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	review, err := h.svc.UpdateReview(mustUserID(r), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, review)
}

// Delete removes a review. Owners delete their own, admins any.
// DELETE /api/reviews/{id}
func (h *Reviews) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	ident := middleware.IdentityFromCtx(r.Context())
	isAdmin := ident != nil && ident.Role == string(models.RoleAdmin)
	if err := h.svc.DeleteReview(mustUserID(r), id, isAdmin); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Review deleted")
}
