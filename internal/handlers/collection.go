// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bankcat/internal/catalog"
	"bankcat/internal/events"
)

// Collections groups the handlers for saved products, compare lists,
// and shared links. All routes except shared link resolution require
// an authenticated user.
type Collections struct {
	svc *catalog.Service
}

// NewCollections creates a new Collections handler group.
func NewCollections(svc *catalog.Service) *Collections {
	return &Collections{svc: svc}
}

// SavedProducts returns the caller's saved products.
// GET /api/me/saved
func (h *Collections) SavedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.SavedProducts(mustUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, products)
}

// SaveProduct adds a product to the caller's saved list.
// POST /api/me/saved/{id}
func (h *Collections) SaveProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	saved, err := h.svc.SaveProduct(mustUserID(r), productID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, saved)
}

// UnsaveProduct removes a product from the caller's saved list.
// DELETE /api/me/saved/{id}
func (h *Collections) UnsaveProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.svc.UnsaveProduct(mustUserID(r), productID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product unsaved")
}

// CompareLists returns the caller's compare lists.
// GET /api/me/compare-lists
func (h *Collections) CompareLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.CompareLists(mustUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, lists)
}

// CreateCompareList creates a named compare list.
// POST /api/me/compare-lists
func (h *Collections) CreateCompareList(w http.ResponseWriter, r *http.Request) {
	var in catalog.CompareListInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	list, err := h.svc.CreateCompareList(mustUserID(r), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, list)
}

// UpdateCompareList renames a compare list or replaces its products.
// PUT /api/me/compare-lists/{id}
func (h *Collections) UpdateCompareList(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in catalog.CompareListInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	list, err := h.svc.UpdateCompareList(mustUserID(r), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

// DeleteCompareList removes a compare list.
// DELETE /api/me/compare-lists/{id}
func (h *Collections) DeleteCompareList(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.svc.DeleteCompareList(mustUserID(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Compare list deleted")
}

// CompareListProducts returns the hydrated products of a compare list
// and publishes a comparison event.
// GET /api/me/compare-lists/{id}/products
func (h *Collections) CompareListProducts(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	userID := mustUserID(r)
	products, err := h.svc.CompareListProducts(userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	h.svc.Events().TryPublish(r.Context(), events.Event{
		Action:     events.ActionComparison,
		UserID:     &userID,
		ProductIDs: ids,
	})

	respond(w, http.StatusOK, products)
}

// SharedLinks returns the caller's shared links.
// GET /api/me/shared-links
func (h *Collections) SharedLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.SharedLinks(mustUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, links)
}

// CreateSharedLink creates a tokenized link to a product selection.
// POST /api/me/shared-links
func (h *Collections) CreateSharedLink(w http.ResponseWriter, r *http.Request) {
	var in catalog.SharedLinkInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	link, err := h.svc.CreateSharedLink(mustUserID(r), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, link)
}

// DeleteSharedLink revokes a shared link.
// DELETE /api/me/shared-links/{id}
func (h *Collections) DeleteSharedLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.svc.DeleteSharedLink(mustUserID(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Shared link deleted")
}

// ResolveSharedLink returns the products behind a share token. Public,
// no auth required. Expired and unknown tokens both read as not found.
// GET /api/shared/{token}
func (h *Collections) ResolveSharedLink(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))
	if token == "" {
		respondError(w, r, catalog.ErrNotFound("Shared link not found"))
		return
	}
	products, err := h.svc.ResolveSharedLink(token)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, products)
}
