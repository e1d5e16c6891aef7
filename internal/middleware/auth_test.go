// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"bankcat/internal/session"
)

// withIdentity returns a request carrying a resolved token payload, as
// LoadIdentity would have left it.
func withIdentity(r *http.Request, role string) *http.Request {
	data := &session.Data{UserID: uuid.New(), Email: "mw@test.local", Role: role}
	return r.WithContext(context.WithValue(r.Context(), IdentityKey, data))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"padded", "Bearer   abc123  ", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := bearerToken(req); got != tt.want {
				t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("rejects anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "UNAUTHORIZED") {
			t.Errorf("body missing error code: %q", rr.Body.String())
		}
	})

	t.Run("passes authenticated", func(t *testing.T) {
		req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/products", nil), "member")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"staff", http.StatusForbidden},
		{"member", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := withIdentity(httptest.NewRequest(http.MethodDelete, "/api/tags/x", nil), tt.role)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("role %s: status = %d, want %d", tt.role, rr.Code, tt.want)
			}
		})
	}

	// A missing credential is 401, not a role failure.
	t.Run("rejects anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/tags/x", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "UNAUTHORIZED") {
			t.Errorf("body missing error code: %q", rr.Body.String())
		}
	})
}

func TestRequireStaff(t *testing.T) {
	handler := RequireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"staff", http.StatusOK},
		{"member", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/products", nil), tt.role)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("role %s: status = %d, want %d", tt.role, rr.Code, tt.want)
			}
		})
	}

	t.Run("rejects anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})
}

func TestIdentityFromCtxEmpty(t *testing.T) {
	if IdentityFromCtx(context.Background()) != nil {
		t.Error("empty context yielded an identity")
	}
}
