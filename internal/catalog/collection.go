// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bankcat/internal/models"
	"bankcat/internal/store"
)

// SaveProduct adds a product to the user's saved set. Saving an already
// saved product is a validation error, not a no-op.
func (s *Service) SaveProduct(userID uuid.UUID, productID string) (*models.SavedProduct, error) {
	p, err := s.products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound("Product not found")
	}

	sp, err := s.saved.Save(userID, productID)
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrValidation("Product is already saved", nil)
		}
		return nil, err
	}
	return sp, nil
}

// UnsaveProduct removes a product from the user's saved set.
func (s *Service) UnsaveProduct(userID uuid.UUID, productID string) error {
	removed, err := s.saved.Unsave(userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound("Product is not saved")
	}
	return nil
}

// SavedProducts returns the user's saved products, hydrated and flagged.
func (s *Service) SavedProducts(userID uuid.UUID) ([]models.Product, error) {
	ids, err := s.saved.IDsByUser(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.products.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].IsSaved = true
	}
	return items, nil
}

// CompareListInput carries the writable compare list fields.
type CompareListInput struct {
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids"`
}

// maxCompareProducts bounds a compare list; comparing more products than
// this renders nothing useful.
const maxCompareProducts = 10

// CompareLists returns the user's compare lists.
func (s *Service) CompareLists(userID uuid.UUID) ([]models.CompareList, error) {
	return s.compares.ListByUser(userID)
}

// getOwnCompareList loads a compare list and enforces ownership. A
// foreign list reads as missing.
func (s *Service) getOwnCompareList(userID, listID uuid.UUID) (*models.CompareList, error) {
	cl, err := s.compares.FindByID(listID)
	if err != nil {
		return nil, err
	}
	if cl == nil || cl.UserID != userID {
		return nil, ErrNotFound("Compare list not found")
	}
	return cl, nil
}

// validateCompareProducts checks size and that every id resolves to an
// active product.
func (s *Service) validateCompareProducts(ids []string) error {
	if len(ids) > maxCompareProducts {
		return ErrValidation(fmt.Sprintf("A compare list holds at most %d products", maxCompareProducts), nil)
	}
	items, err := s.products.ListByIDs(ids)
	if err != nil {
		return err
	}
	if len(items) != len(dedupe(ids)) {
		return ErrValidation("Compare list references unknown or inactive products", nil)
	}
	return nil
}

// CreateCompareList creates a named compare list for the user.
func (s *Service) CreateCompareList(userID uuid.UUID, in CompareListInput) (*models.CompareList, error) {
	if in.Name == "" {
		return nil, ErrValidation("Compare list name is required", nil)
	}
	ids := dedupe(in.ProductIDs)
	if err := s.validateCompareProducts(ids); err != nil {
		return nil, err
	}

	cl, err := s.compares.Create(userID, in.Name, ids)
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("A compare list with this name already exists")
		}
		return nil, err
	}
	return cl, nil
}

// UpdateCompareList replaces a list's name and product set.
func (s *Service) UpdateCompareList(userID, listID uuid.UUID, in CompareListInput) (*models.CompareList, error) {
	if _, err := s.getOwnCompareList(userID, listID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, ErrValidation("Compare list name is required", nil)
	}
	ids := dedupe(in.ProductIDs)
	if err := s.validateCompareProducts(ids); err != nil {
		return nil, err
	}

	cl, err := s.compares.Update(listID, in.Name, ids)
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("A compare list with this name already exists")
		}
		return nil, err
	}
	return cl, nil
}

// DeleteCompareList removes one of the user's compare lists.
func (s *Service) DeleteCompareList(userID, listID uuid.UUID) error {
	if _, err := s.getOwnCompareList(userID, listID); err != nil {
		return err
	}
	return s.compares.Delete(listID)
}

// CompareListProducts hydrates a compare list into its products, with
// the user's saved flags filled in.
func (s *Service) CompareListProducts(userID, listID uuid.UUID) ([]models.Product, error) {
	cl, err := s.getOwnCompareList(userID, listID)
	if err != nil {
		return nil, err
	}
	items, err := s.products.ListByIDs(cl.ProductIDs)
	if err != nil {
		return nil, err
	}
	if err := s.markSaved(items, &userID); err != nil {
		return nil, err
	}
	return items, nil
}

// SharedLinkInput carries the writable shared link fields.
type SharedLinkInput struct {
	ProductIDs []string   `json:"product_ids"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// CreateSharedLink snapshots a product-id list behind a random token.
func (s *Service) CreateSharedLink(userID uuid.UUID, in SharedLinkInput) (*models.SharedLink, error) {
	ids := dedupe(in.ProductIDs)
	if len(ids) == 0 {
		return nil, ErrValidation("A shared link needs at least one product", nil)
	}
	if err := s.validateCompareProducts(ids); err != nil {
		return nil, err
	}
	if in.ExpiresAt != nil && in.ExpiresAt.Before(time.Now()) {
		return nil, ErrValidation("Expiry must be in the future", nil)
	}

	token, err := shareToken()
	if err != nil {
		return nil, err
	}
	return s.shares.Create(userID, token, ids, in.ExpiresAt)
}

// SharedLinks returns the user's shared links.
func (s *Service) SharedLinks(userID uuid.UUID) ([]models.SharedLink, error) {
	return s.shares.ListByUser(userID)
}

// DeleteSharedLink removes one of the user's shared links.
func (s *Service) DeleteSharedLink(userID, linkID uuid.UUID) error {
	links, err := s.shares.ListByUser(userID)
	if err != nil {
		return err
	}
	for _, l := range links {
		if l.ID == linkID {
			return s.shares.Delete(linkID)
		}
	}
	return ErrNotFound("Shared link not found")
}

// ResolveSharedLink resolves a token to its product list. Expired and
// unknown tokens are indistinguishable to the caller.
func (s *Service) ResolveSharedLink(token string) ([]models.Product, error) {
	link, err := s.shares.FindByToken(token)
	if err != nil {
		return nil, err
	}
	if link == nil || link.Expired() {
		return nil, ErrNotFound("Shared link not found")
	}
	return s.products.ListByIDs(link.ProductIDs)
}

// PurgeExpiredSharedLinks removes links past their expiry and returns
// how many were dropped. Run periodically from the process entry point.
func (s *Service) PurgeExpiredSharedLinks() (int64, error) {
	return s.shares.DeleteExpired()
}

// shareToken returns 32 hex chars of randomness.
func shareToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// dedupe drops duplicate ids preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
