// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"log/slog"

	"github.com/google/uuid"

	"bankcat/internal/fields"
	"bankcat/internal/models"
	"bankcat/internal/slug"
	"bankcat/internal/store"
)

// rateHistoryPreview is how many rate entries a product detail view
// carries inline.
const rateHistoryPreview = 10

// ProductInput carries the writable product fields.
type ProductInput struct {
	InstitutionID uuid.UUID  `json:"institution_id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	ProductTypeID *uuid.UUID `json:"product_type_id"`
	Name          string     `json:"name"`
	Details       fields.Bag `json:"details"`
	IsActive      *bool      `json:"is_active"`
	IsFeatured    *bool      `json:"is_featured"`
	ChangeNote    string     `json:"change_note"`
}

// ListProducts returns products matching the filter plus the total match
// count. When userID is set, IsSaved is filled from one bulk lookup of
// the user's saved set.
func (s *Service) ListProducts(f store.ProductFilter, userID *uuid.UUID) ([]models.Product, int, error) {
	items, total, err := s.products.List(f)
	if err != nil {
		return nil, 0, err
	}
	if err := s.markSaved(items, userID); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// markSaved sets IsSaved across a product slice using a single
// saved-ids query for the user.
func (s *Service) markSaved(items []models.Product, userID *uuid.UUID) error {
	if userID == nil || len(items) == 0 {
		return nil
	}
	ids, err := s.saved.IDsByUser(*userID)
	if err != nil {
		return err
	}
	savedSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		savedSet[id] = true
	}
	for i := range items {
		items[i].IsSaved = savedSet[items[i].ID]
	}
	return nil
}

// GetProduct returns one product hydrated with its category, tags, the
// recent rate history, and the caller's saved flag.
func (s *Service) GetProduct(id string, userID *uuid.UUID) (*models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}

	if p.Category, err = s.categories.FindByID(p.CategoryID); err != nil {
		return nil, err
	}
	if p.Tags, err = s.tags.ListByProduct(p.ID); err != nil {
		return nil, err
	}
	if p.RateHistory, err = s.rates.ListByProduct(p.ID, store.RateHistoryFilter{Limit: rateHistoryPreview}); err != nil {
		return nil, err
	}
	if userID != nil {
		if p.IsSaved, err = s.saved.Exists(*userID, p.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// validateProductRefs checks the foreign entities a product points at.
func (s *Service) validateProductRefs(in ProductInput) error {
	inst, err := s.institutions.FindByID(in.InstitutionID)
	if err != nil {
		return err
	}
	if inst == nil {
		return ErrValidation("Unknown institution", nil)
	}

	cat, err := s.categories.FindByID(in.CategoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return ErrValidation("Unknown category", nil)
	}

	if in.ProductTypeID != nil {
		pt, err := s.productTypes.FindByID(*in.ProductTypeID)
		if err != nil {
			return err
		}
		if pt == nil {
			return ErrValidation("Unknown product type", nil)
		}
	}
	return nil
}

// CreateProduct inserts a product and appends version 1. A failed
// version append leaves the product without history; it is logged, not
// rolled back.
func (s *Service) CreateProduct(in ProductInput, changedBy *uuid.UUID) (*models.Product, error) {
	if in.Name == "" {
		return nil, ErrValidation("Product name is required", nil)
	}
	if err := s.validateProductRefs(in); err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	p, err := s.products.Create(&models.Product{
		ID:            slug.ProductID(in.Name),
		InstitutionID: in.InstitutionID,
		CategoryID:    in.CategoryID,
		ProductTypeID: in.ProductTypeID,
		Name:          in.Name,
		Slug:          slug.Generate(in.Name),
		Details:       in.Details,
		IsActive:      active,
		IsFeatured:    in.IsFeatured != nil && *in.IsFeatured,
	})
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("A product with this identifier already exists")
		}
		return nil, err
	}

	s.appendVersion(p, changedBy, firstNonEmpty(in.ChangeNote, "created"))
	return p, nil
}

// UpdateProduct modifies a product, re-deriving the slug on rename, and
// appends the next version snapshot.
func (s *Service) UpdateProduct(id string, in ProductInput, changedBy *uuid.UUID) (*models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}
	if in.Name == "" {
		return nil, ErrValidation("Product name is required", nil)
	}
	if err := s.validateProductRefs(in); err != nil {
		return nil, err
	}

	if in.Name != p.Name {
		p.Slug = slug.Generate(in.Name)
	}
	p.InstitutionID = in.InstitutionID
	p.CategoryID = in.CategoryID
	p.ProductTypeID = in.ProductTypeID
	p.Name = in.Name
	p.Details = in.Details
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}

	if err := s.products.Update(p); err != nil {
		return nil, err
	}

	s.appendVersion(p, changedBy, firstNonEmpty(in.ChangeNote, "updated"))
	return p, nil
}

// appendVersion records a full snapshot as the product's next version.
// Virtual fields are stripped so snapshots stay comparable.
func (s *Service) appendVersion(p *models.Product, changedBy *uuid.UUID, note string) {
	snapshot := *p
	snapshot.Category = nil
	snapshot.Tags = nil
	snapshot.RateHistory = nil
	snapshot.IsSaved = false

	if _, err := s.versions.Append(&models.ProductVersion{
		ProductID:  p.ID,
		Snapshot:   snapshot,
		ChangedBy:  changedBy,
		ChangeNote: note,
	}); err != nil {
		slog.Error("append product version failed", "product_id", p.ID, "error", err)
	}
}

// SetProductActive flips the active flag.
func (s *Service) SetProductActive(id string, active bool) error {
	p, err := s.products.FindByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound("Product not found")
	}
	return s.products.SetActive(id, active)
}

// DeleteProduct removes the product row. Version and rate history rows
// survive until PurgeProductHistory.
func (s *Service) DeleteProduct(id string) error {
	p, err := s.products.FindByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound("Product not found")
	}
	return s.products.Delete(id)
}

// PurgeProductHistory bulk-deletes a product's version log and rate
// history. Intended for use after DeleteProduct.
func (s *Service) PurgeProductHistory(id string) error {
	count, err := s.versions.Count(id)
	if err != nil {
		return err
	}
	if err := s.versions.DeleteByProduct(id); err != nil {
		return err
	}
	if err := s.rates.DeleteByProduct(id); err != nil {
		return err
	}
	slog.Info("product history purged", "product_id", id, "versions", count)
	return nil
}

// ListProductVersions returns a product's version log, newest first.
func (s *Service) ListProductVersions(id string, limit int) ([]models.ProductVersion, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}
	return s.versions.ListByProduct(id, limit)
}

// GetProductVersion returns one version of a product.
func (s *Service) GetProductVersion(id string, number int) (*models.ProductVersion, error) {
	v, err := s.versions.FindByNumber(id, number)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound("Product version not found")
	}
	return v, nil
}

// RateEntryInput carries the writable rate history fields.
type RateEntryInput struct {
	Metric   string  `json:"metric"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Source   string  `json:"source"`
}

// AddRateEntry appends a rate history entry to a product.
func (s *Service) AddRateEntry(productID string, in RateEntryInput) (*models.RateHistoryEntry, error) {
	if in.Metric == "" {
		return nil, ErrValidation("Rate metric is required", nil)
	}
	p, err := s.products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}

	return s.rates.Create(&models.RateHistoryEntry{
		ProductID: productID,
		Metric:    in.Metric,
		Value:     in.Value,
		Currency:  in.Currency,
		Source:    in.Source,
	})
}

// ListRateHistory returns a product's rate history, newest first.
func (s *Service) ListRateHistory(productID string, f store.RateHistoryFilter) ([]models.RateHistoryEntry, error) {
	p, err := s.products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}
	return s.rates.ListByProduct(productID, f)
}

// LatestRate returns the most recent entry for one metric of a product.
func (s *Service) LatestRate(productID, metric string) (*models.RateHistoryEntry, error) {
	if metric == "" {
		return nil, ErrValidation("Rate metric is required", nil)
	}
	p, err := s.products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}
	entry, err := s.rates.Latest(productID, metric)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound("No rate recorded for this metric")
	}
	return entry, nil
}

// TypeSchema is the inferred field schema of a product type.
type TypeSchema struct {
	TotalProducts int                  `json:"total_products"`
	Fields        []fields.FieldSchema `json:"fields"`
}

// InferTypeSchema analyzes the attribute bags of every product of the
// type and returns the inferred schema. Products without a bag do not
// count toward coverage.
func (s *Service) InferTypeSchema(typeID uuid.UUID) (*TypeSchema, error) {
	if _, err := s.GetProductType(typeID); err != nil {
		return nil, err
	}

	bags, err := s.products.BagsByType(typeID)
	if err != nil {
		return nil, err
	}
	return &TypeSchema{
		TotalProducts: len(bags),
		Fields:        fields.Analyze(bags),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
