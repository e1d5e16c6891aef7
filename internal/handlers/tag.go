// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
)

// ListTags returns all tags ordered by name.
// GET /api/tags
func (c *Catalog) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.svc.ListTags()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, tags)
}

// CreateTag inserts a tag.
// POST /api/tags
func (c *Catalog) CreateTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	tag, err := c.svc.CreateTag(strings.TrimSpace(body.Name))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, tag)
}

// DeleteTag removes a tag and its product assignments.
// DELETE /api/tags/{id}
func (c *Catalog) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.svc.DeleteTag(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Tag deleted")
}

// TagProduct assigns a tag to a product.
// POST /api/products/{id}/tags/{tagID}
func (c *Catalog) TagProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tagID, err := uuidParam(r, "tagID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.svc.TagProduct(productID, tagID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Tag assigned")
}

// UntagProduct removes a tag from a product.
// DELETE /api/products/{id}/tags/{tagID}
func (c *Catalog) UntagProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := productParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tagID, err := uuidParam(r, "tagID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.svc.UntagProduct(productID, tagID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Tag removed")
}
