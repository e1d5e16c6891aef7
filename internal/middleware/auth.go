// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"bankcat/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the resolved token payload.
	IdentityKey contextKey = "identity"
)

// LoadIdentity resolves the Authorization bearer token against Valkey and
// stores the payload in the request context. It does NOT enforce
// authentication; public endpoints run it too so reads can personalize.
func LoadIdentity(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			data, err := store.Get(r.Context(), token)
			if err != nil {
				// Valkey down reads as unauthenticated rather than 500.
				next.ServeHTTP(w, r)
				return
			}
			if data != nil {
				ctx := context.WithValue(r.Context(), IdentityKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a resolved identity.
// Must be applied after LoadIdentity in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromCtx(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 401 for anonymous requests and 403 unless the
// authenticated user is an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := IdentityFromCtx(r.Context())
		if ident == nil {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if ident.Role != "admin" {
			writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff returns 401 for anonymous requests and 403 unless the
// user is admin or institution staff.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := IdentityFromCtx(r.Context())
		if ident == nil {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if ident.Role != "admin" && ident.Role != "staff" {
			writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromCtx extracts the token payload from the request context.
// Returns nil if the request is unauthenticated.
func IdentityFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(IdentityKey).(*session.Data)
	return data
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// writeJSONError emits the API error envelope without importing the
// handlers package.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"status":  status,
		"message": message,
		"error":   map[string]any{"code": code},
	})
}
