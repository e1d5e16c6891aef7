// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"bankcat/internal/catalog"
	"bankcat/internal/middleware"
	"bankcat/internal/session"
	"bankcat/internal/store"
)

// Auth groups the login/logout handlers issuing bearer tokens.
type Auth struct {
	users  *store.UserStore
	tokens *session.Store
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *session.Store) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *session.Data `json:"user"`
}

// Login verifies credentials and issues a bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		respondError(w, r, catalog.ErrValidation("Email and password are required", nil))
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, r, catalog.ErrUnauthorized("Invalid email or password"))
		return
	}

	data := &session.Data{
		UserID:        user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		Role:          string(user.Role),
		InstitutionID: user.InstitutionID,
	}
	token, err := a.tokens.Create(r.Context(), data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("user logged in", "email", user.Email, "role", user.Role)
	respond(w, http.StatusOK, loginResponse{Token: token, User: data})
}

// Logout invalidates the caller's bearer token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) {
		if err := a.tokens.Destroy(r.Context(), strings.TrimSpace(auth[len(prefix):])); err != nil {
			respondError(w, r, err)
			return
		}
	}
	respondMessage(w, http.StatusOK, "Logged out")
}

// Me returns the authenticated identity.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())
	if ident == nil {
		respondError(w, r, catalog.ErrUnauthorized("Authentication required"))
		return
	}
	respond(w, http.StatusOK, ident)
}
