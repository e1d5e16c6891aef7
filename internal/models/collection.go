// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedProduct marks a product as saved by a user. One row per
// (user, product) pair.
type SavedProduct struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CompareList is a named, user-scoped list of product ids stored as a
// single row, not as join rows.
type CompareList struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	ProductIDs []string  `json:"product_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SharedLink is a token-addressed snapshot of a product-id list that can
// be resolved without authentication. ExpiresAt nil means no expiry.
type SharedLink struct {
	ID         uuid.UUID  `json:"id"`
	Token      string     `json:"token"`
	UserID     uuid.UUID  `json:"user_id"`
	ProductIDs []string   `json:"product_ids"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Expired returns true if the link has an expiry in the past.
func (l *SharedLink) Expired() bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(time.Now())
}
