// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"bankcat/internal/fields"
)

// Product represents a banking product offered by an institution.
// The ID is a display-friendly identifier ("FDP-9f3a2c1d") generated at
// create time, not a UUID. Details is an open-ended attribute bag whose
// schema is inferred lazily per product type, never declared statically.
type Product struct {
	ID            string     `json:"id"`
	InstitutionID uuid.UUID  `json:"institution_id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	ProductTypeID *uuid.UUID `json:"product_type_id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Details       fields.Bag `json:"details"`
	IsActive      bool       `json:"is_active"`
	IsFeatured    bool       `json:"is_featured"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual fields populated by the catalog service.
	Category    *Category          `json:"category,omitempty"`
	Tags        []Tag              `json:"tags,omitempty"`
	RateHistory []RateHistoryEntry `json:"rate_history,omitempty"`
	IsSaved     bool               `json:"is_saved"`
}

// ProductVersion is an immutable full snapshot of a product's state at a
// point in its mutation history. Version numbers are monotonic per
// product, starting at 1 on create. Rows are only ever appended.
type ProductVersion struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     string     `json:"product_id"`
	VersionNumber int        `json:"version_number"`
	Snapshot      Product    `json:"snapshot"`
	ChangedBy     *uuid.UUID `json:"changed_by,omitempty"`
	ChangeNote    string     `json:"change_note"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RateHistoryEntry is one point in a product's append-only metric time
// series. Entries are never mutated, only appended, queried, or bulk
// deleted per product.
type RateHistoryEntry struct {
	ID         uuid.UUID `json:"id"`
	ProductID  string    `json:"product_id"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	Currency   string    `json:"currency"`
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recorded_at"`
}
