// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the business rules of the product catalog:
// category tree integrity, product lifecycle with version history, field
// schema inference, and the user-facing collections built on top. Stores
// persist; this package decides.
package catalog

import (
	"database/sql"

	"bankcat/internal/events"
	"bankcat/internal/store"
)

// Service wires every store behind the catalog's business operations.
// The events publisher may be nil; activity events are then dropped.
type Service struct {
	categories       *store.CategoryStore
	institutionTypes *store.InstitutionTypeStore
	institutions     *store.InstitutionStore
	productTypes     *store.ProductTypeStore
	products         *store.ProductStore
	versions         *store.VersionStore
	rates            *store.RateHistoryStore
	tags             *store.TagStore
	reviews          *store.ReviewStore
	saved            *store.SavedProductStore
	compares         *store.CompareListStore
	shares           *store.SharedLinkStore
	events           *events.Publisher
}

// New creates a Service over the database, building its stores.
func New(db *sql.DB, pub *events.Publisher) *Service {
	return &Service{
		categories:       store.NewCategoryStore(db),
		institutionTypes: store.NewInstitutionTypeStore(db),
		institutions:     store.NewInstitutionStore(db),
		productTypes:     store.NewProductTypeStore(db),
		products:         store.NewProductStore(db),
		versions:         store.NewVersionStore(db),
		rates:            store.NewRateHistoryStore(db),
		tags:             store.NewTagStore(db),
		reviews:          store.NewReviewStore(db),
		saved:            store.NewSavedProductStore(db),
		compares:         store.NewCompareListStore(db),
		shares:           store.NewSharedLinkStore(db),
		events:           pub,
	}
}

// Events exposes the publisher for handlers that emit activity directly.
func (s *Service) Events() *events.Publisher {
	return s.events
}
