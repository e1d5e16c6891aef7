// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bankcat/internal/catalog"
	"bankcat/internal/middleware"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// uuidParam parses a chi URL parameter as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, catalog.ErrValidation("Invalid "+name, nil)
	}
	return id, nil
}

// uuidQuery parses an optional UUID query parameter. Absent reads as nil.
func uuidQuery(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, catalog.ErrValidation("Invalid "+name, nil)
	}
	return &id, nil
}

// boolQuery parses an optional boolean query parameter. Absent reads as nil.
func boolQuery(r *http.Request, name string) *bool {
	switch r.URL.Query().Get(name) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

// intQuery parses an optional integer query parameter with a fallback.
func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// pagination derives limit/offset from page+limit query parameters.
// Limit is capped at 100 and defaults to 20; page starts at 1.
func pagination(r *http.Request) (limit, offset int) {
	limit = intQuery(r, "limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	page := intQuery(r, "page", 1)
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// currentUserID returns the authenticated user's id, or nil.
func currentUserID(r *http.Request) *uuid.UUID {
	if ident := middleware.IdentityFromCtx(r.Context()); ident != nil {
		id := ident.UserID
		return &id
	}
	return nil
}

// mustUserID returns the authenticated user's id. Routes behind
// RequireAuth always have one; the zero UUID never reaches here.
func mustUserID(r *http.Request) uuid.UUID {
	if ident := middleware.IdentityFromCtx(r.Context()); ident != nil {
		return ident.UserID
	}
	return uuid.Nil
}
