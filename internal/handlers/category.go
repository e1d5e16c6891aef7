// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bankcat/internal/cache"
	"bankcat/internal/catalog"
	"bankcat/internal/store"
)

// Catalog groups the handlers for categories, product types, products,
// and tags. The schema cache may be nil; inference then runs on every
// request.
type Catalog struct {
	svc     *catalog.Service
	schemas *cache.SchemaCache
}

// NewCatalog creates a new Catalog handler group.
func NewCatalog(svc *catalog.Service, schemas *cache.SchemaCache) *Catalog {
	return &Catalog{svc: svc, schemas: schemas}
}

// ListCategories returns categories matching the query filters.
// GET /api/categories?parent_id=&roots=&level=
func (c *Catalog) ListCategories(w http.ResponseWriter, r *http.Request) {
	parentID, err := uuidQuery(r, "parent_id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	f := store.CategoryFilter{ParentID: parentID}
	if roots := boolQuery(r, "roots"); roots != nil && *roots {
		f.RootsOnly = true
		f.ParentID = nil
	}
	if lvl := r.URL.Query().Get("level"); lvl != "" {
		level := intQuery(r, "level", 0)
		f.Level = &level
	}

	cats, err := c.svc.ListCategories(f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, cats)
}

// CategoryHierarchy returns roots with one level of children.
// GET /api/categories/hierarchy
func (c *Catalog) CategoryHierarchy(w http.ResponseWriter, r *http.Request) {
	tree, err := c.svc.CategoryHierarchy()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, tree)
}

// GetCategory returns one category by id.
// GET /api/categories/{id}
func (c *Catalog) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	cat, err := c.svc.GetCategory(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, cat)
}

// GetCategoryBySlug returns one category by slug.
// GET /api/categories/slug/{slug}
func (c *Catalog) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	cat, err := c.svc.GetCategoryBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, cat)
}

// CreateCategory inserts a category.
// POST /api/categories
func (c *Catalog) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	cat, err := c.svc.CreateCategory(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, cat)
}

// UpdateCategory modifies a category.
// PUT /api/categories/{id}
func (c *Catalog) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in catalog.CategoryInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	cat, err := c.svc.UpdateCategory(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, cat)
}

// DeleteCategory removes an unreferenced category.
// DELETE /api/categories/{id}
func (c *Catalog) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.svc.DeleteCategory(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Category deleted")
}

// ListProductTypes returns product types, optionally per category.
// GET /api/product-types?category_id=
func (c *Catalog) ListProductTypes(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuidQuery(r, "category_id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	types, err := c.svc.ListProductTypes(categoryID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, types)
}

// GetProductTypeByCode returns one product type by code.
// GET /api/product-types/code/{code}
func (c *Catalog) GetProductTypeByCode(w http.ResponseWriter, r *http.Request) {
	pt, err := c.svc.GetProductTypeByCode(chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, pt)
}

// CreateProductType inserts a product type.
// POST /api/product-types
func (c *Catalog) CreateProductType(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductTypeInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	pt, err := c.svc.CreateProductType(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, pt)
}

// UpdateProductType modifies a product type.
// PUT /api/product-types/{id}
func (c *Catalog) UpdateProductType(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var in catalog.ProductTypeInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	pt, err := c.svc.UpdateProductType(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, pt)
}

// DeleteProductType removes an unused product type.
// DELETE /api/product-types/{id}
func (c *Catalog) DeleteProductType(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.svc.DeleteProductType(id); err != nil {
		respondError(w, r, err)
		return
	}
	c.invalidateSchema(r.Context(), &id)
	respondMessage(w, http.StatusOK, "Product type deleted")
}

// TypeSchema returns the inferred field schema of a product type,
// served from cache when fresh.
// GET /api/product-types/{id}/schema
func (c *Catalog) TypeSchema(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if c.schemas != nil {
		if cached, ok := c.schemas.Get(r.Context(), id); ok {
			var schema catalog.TypeSchema
			if json.Unmarshal(cached, &schema) == nil {
				respond(w, http.StatusOK, &schema)
				return
			}
		}
	}

	schema, err := c.svc.InferTypeSchema(id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if c.schemas != nil {
		if payload, err := json.Marshal(schema); err == nil {
			c.schemas.Set(r.Context(), id, payload)
		}
	}
	respond(w, http.StatusOK, schema)
}

// invalidateSchema drops the cached schema for a product type. Nil
// cache and untyped products are no-ops.
func (c *Catalog) invalidateSchema(ctx context.Context, typeID *uuid.UUID) {
	if c.schemas == nil || typeID == nil {
		return
	}
	c.schemas.Invalidate(ctx, *typeID)
}
