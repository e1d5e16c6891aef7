// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bankcat/internal/catalog"
	"bankcat/internal/events"
	"bankcat/internal/middleware"
	"bankcat/internal/models"
	"bankcat/internal/store"
)

// productParam reads the product id path parameter. Product ids are
// slugs, not UUIDs.
func productParam(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", catalog.ErrValidation("Missing product id", nil)
	}
	return id, nil
}

// canWriteInstitution reports whether the caller may mutate products
// of the given institution. Admins may mutate any, staff only their
// own.
func canWriteInstitution(r *http.Request, institutionID uuid.UUID) error {
	ident := middleware.IdentityFromCtx(r.Context())
	if ident == nil {
		return catalog.ErrUnauthorized("Authentication required")
	}
	if ident.Role == string(models.RoleAdmin) {
		return nil
	}
	if ident.Role == string(models.RoleStaff) && ident.InstitutionID != nil && *ident.InstitutionID == institutionID {
		return nil
	}
	return catalog.ErrForbidden("You may not manage products of this institution")
}

// ListProducts returns products matching the query filters with
// pagination meta. A non-empty search publishes a search event.
// GET /api/products
func (c *Catalog) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, err := productFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	userID := currentUserID(r)
	products, total, err := c.svc.ListProducts(f, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if f.Search != "" {
		c.svc.Events().TryPublish(r.Context(), events.Event{
			Action: events.ActionSearch,
			UserID: userID,
			Query:  f.Search,
		})
	}

	respondList(w, products, Meta{Total: total, Limit: f.Limit, Offset: f.Offset})
}

func productFilter(r *http.Request) (store.ProductFilter, error) {
	var f store.ProductFilter

	categoryID, err := uuidQuery(r, "category_id")
	if err != nil {
		return f, err
	}
	institutionID, err := uuidQuery(r, "institution_id")
	if err != nil {
		return f, err
	}
	typeID, err := uuidQuery(r, "type_id")
	if err != nil {
		return f, err
	}

	f.CategoryID = categoryID
	f.InstitutionID = institutionID
	f.ProductTypeID = typeID
	f.IsActive = boolQuery(r, "active")
	f.IsFeatured = boolQuery(r, "featured")
	f.Search = strings.TrimSpace(r.URL.Query().Get("search"))
	f.Sort = r.URL.Query().Get("sort")
	f.Order = r.URL.Query().Get("order")
	f.Limit, f.Offset = pagination(r)
	return f, nil
}

// GetProduct returns one product with category, tags, saved state, and
// a rate history preview. Publishes a product view event.
// GET /api/products/{id}
func (c *Catalog) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	userID := currentUserID(r)
	p, err := c.svc.GetProduct(id, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	c.svc.Events().TryPublish(r.Context(), events.Event{
		Action:    events.ActionProductView,
		UserID:    userID,
		ProductID: p.ID,
	})

	respond(w, http.StatusOK, p)
}

// CreateProduct inserts a product and records version 1.
// POST /api/products
func (c *Catalog) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if err := canWriteInstitution(r, in.InstitutionID); err != nil {
		respondError(w, r, err)
		return
	}

	p, err := c.svc.CreateProduct(in, currentUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	c.invalidateSchema(r.Context(), p.ProductTypeID)
	respond(w, http.StatusCreated, p)
}

// UpdateProduct modifies a product and records a new version.
// PUT /api/products/{id}
func (c *Catalog) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	existing, err := c.svc.GetProduct(id, nil)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := canWriteInstitution(r, existing.InstitutionID); err != nil {
		respondError(w, r, err)
		return
	}

	var in catalog.ProductInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if err := canWriteInstitution(r, in.InstitutionID); err != nil {
		respondError(w, r, err)
		return
	}

	p, err := c.svc.UpdateProduct(id, in, currentUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	c.invalidateSchema(r.Context(), existing.ProductTypeID)
	c.invalidateSchema(r.Context(), p.ProductTypeID)
	respond(w, http.StatusOK, p)
}

// SetProductActive toggles product visibility without recording a
// version.
// PATCH /api/products/{id}/active
func (c *Catalog) SetProductActive(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	existing, err := c.svc.GetProduct(id, nil)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := canWriteInstitution(r, existing.InstitutionID); err != nil {
		respondError(w, r, err)
		return
	}

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	if body.IsActive == nil {
		respondError(w, r, catalog.ErrValidation("is_active is required", nil))
		return
	}

	if err := c.svc.SetProductActive(id, *body.IsActive); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product updated")
}

// DeleteProduct removes the product row. Version and rate history
// survive until purged.
// DELETE /api/products/{id}
func (c *Catalog) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	existing, err := c.svc.GetProduct(id, nil)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := canWriteInstitution(r, existing.InstitutionID); err != nil {
		respondError(w, r, err)
		return
	}

	if err := c.svc.DeleteProduct(id); err != nil {
		respondError(w, r, err)
		return
	}
	c.invalidateSchema(r.Context(), existing.ProductTypeID)
	respondMessage(w, http.StatusOK, "Product deleted")
}

// PurgeProductHistory removes the version and rate history kept after
// a product was deleted. Admin only, enforced by the router.
// DELETE /api/products/{id}/history
func (c *Catalog) PurgeProductHistory(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.svc.PurgeProductHistory(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product history purged")
}

// ListProductVersions returns the version history, newest first.
// GET /api/products/{id}/versions
func (c *Catalog) ListProductVersions(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	limit := intQuery(r, "limit", 0)
	versions, err := c.svc.ListProductVersions(id, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, versions)
}

// GetProductVersion returns one version snapshot by number.
// GET /api/products/{id}/versions/{number}
func (c *Catalog) GetProductVersion(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		respondError(w, r, catalog.ErrValidation("Version number must be positive", nil))
		return
	}
	v, err := c.svc.GetProductVersion(id, number)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, v)
}

// ListRateHistory returns rate entries for a product, newest first.
// GET /api/products/{id}/rates
func (c *Catalog) ListRateHistory(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	f := store.RateHistoryFilter{
		Metric: r.URL.Query().Get("metric"),
		Limit:  intQuery(r, "limit", 0),
	}
	if from, err := timeQuery(r, "from"); err != nil {
		respondError(w, r, err)
		return
	} else {
		f.From = from
	}
	if to, err := timeQuery(r, "to"); err != nil {
		respondError(w, r, err)
		return
	} else {
		f.To = to
	}

	entries, err := c.svc.ListRateHistory(id, f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, entries)
}

// LatestRate returns the most recent entry for one metric.
// GET /api/products/{id}/rates/latest?metric=
func (c *Catalog) LatestRate(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	entry, err := c.svc.LatestRate(id, r.URL.Query().Get("metric"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, entry)
}

// AddRateEntry appends a rate observation to a product.
// POST /api/products/{id}/rates
func (c *Catalog) AddRateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	existing, err := c.svc.GetProduct(id, nil)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := canWriteInstitution(r, existing.InstitutionID); err != nil {
		respondError(w, r, err)
		return
	}

	var in catalog.RateEntryInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	entry, err := c.svc.AddRateEntry(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, entry)
}

// timeQuery parses an optional RFC 3339 timestamp query parameter.
func timeQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, catalog.ErrValidation("Invalid "+name+" timestamp", nil)
	}
	return &t, nil
}
