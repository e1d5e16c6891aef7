// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// InstitutionType classifies institutions (bank, finance company, ...).
// Code is unique.
type InstitutionType struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Institution represents a financial institution offering products.
// Slug is derived from Name at create and rename time.
type Institution struct {
	ID          uuid.UUID `json:"id"`
	TypeID      uuid.UUID `json:"type_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	CountryCode string    `json:"country_code"`
	LogoKey     *string   `json:"-"` // Object storage key, exposed as logo_url
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// LogoURL is derived from LogoKey at the API layer, not stored.
	LogoURL string `json:"logo_url,omitempty"`
}
