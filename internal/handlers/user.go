// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"bankcat/internal/catalog"
	"bankcat/internal/middleware"
	"bankcat/internal/models"
	"bankcat/internal/store"
)

// Users groups the admin user management handlers.
type Users struct {
	users *store.UserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

// List returns all users. Admin only, enforced by the router.
// GET /api/users
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, users)
}

// Create adds a user account.
// POST /api/users
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email         string     `json:"email"`
		Password      string     `json:"password"`
		DisplayName   string     `json:"display_name"`
		Role          string     `json:"role"`
		InstitutionID *uuid.UUID `json:"institution_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" || !strings.Contains(email, "@") {
		respondError(w, r, catalog.ErrValidation("A valid email is required", nil))
		return
	}
	if len(body.Password) < 8 {
		respondError(w, r, catalog.ErrValidation("Password must be at least 8 characters", nil))
		return
	}
	role := models.Role(body.Role)
	switch role {
	case models.RoleAdmin, models.RoleStaff, models.RoleMember:
	case "":
		role = models.RoleMember
	default:
		respondError(w, r, catalog.ErrValidation("Unknown role", nil))
		return
	}
	if role == models.RoleStaff && body.InstitutionID == nil {
		respondError(w, r, catalog.ErrValidation("Staff accounts require an institution", nil))
		return
	}

	existing, err := h.users.FindByEmail(email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if existing != nil {
		respondError(w, r, catalog.ErrConflict("A user with this email already exists"))
		return
	}

	user, err := h.users.Create(email, body.Password, strings.TrimSpace(body.DisplayName), role, body.InstitutionID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, user)
}

// ChangePassword rotates a user's password. Users rotate their own;
// admins rotate anyone's.
// PUT /api/users/{id}/password
func (h *Users) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	ident := middleware.IdentityFromCtx(r.Context())
	if ident == nil {
		respondError(w, r, catalog.ErrUnauthorized("Authentication required"))
		return
	}
	if ident.Role != string(models.RoleAdmin) && ident.UserID != id {
		respondError(w, r, catalog.ErrForbidden("You may only change your own password"))
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	if len(body.Password) < 8 {
		respondError(w, r, catalog.ErrValidation("Password must be at least 8 characters", nil))
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil {
		respondError(w, r, catalog.ErrNotFound("User not found"))
		return
	}

	if err := h.users.UpdatePassword(id, body.Password); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Password updated")
}

// Delete removes a user account. Admin only, enforced by the router;
// admins cannot delete themselves.
// DELETE /api/users/{id}
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if ident := middleware.IdentityFromCtx(r.Context()); ident != nil && ident.UserID == id {
		respondError(w, r, catalog.ErrValidation("You cannot delete your own account", nil))
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil {
		respondError(w, r, catalog.ErrNotFound("User not found"))
		return
	}

	if err := h.users.Delete(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "User deleted")
}
