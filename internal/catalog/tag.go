// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"github.com/google/uuid"

	"bankcat/internal/models"
	"bankcat/internal/slug"
	"bankcat/internal/store"
)

// ListTags returns every tag.
func (s *Service) ListTags() ([]models.Tag, error) {
	return s.tags.List()
}

// CreateTag inserts a tag, deriving the slug from the name.
func (s *Service) CreateTag(name string) (*models.Tag, error) {
	if name == "" {
		return nil, ErrValidation("Tag name is required", nil)
	}
	tag, err := s.tags.Create(&models.Tag{Name: name, Slug: slug.Generate(name)})
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("A tag with this name already exists")
		}
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag. Join rows go with it.
func (s *Service) DeleteTag(id uuid.UUID) error {
	tag, err := s.tags.FindByID(id)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrNotFound("Tag not found")
	}
	return s.tags.Delete(id)
}

// TagProduct attaches a tag to a product.
func (s *Service) TagProduct(productID string, tagID uuid.UUID) error {
	p, err := s.products.FindByID(productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound("Product not found")
	}
	tag, err := s.tags.FindByID(tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrNotFound("Tag not found")
	}

	if err := s.tags.Attach(productID, tagID); err != nil {
		if store.IsConflict(err) {
			return ErrValidation("Product already carries this tag", nil)
		}
		return err
	}
	return nil
}

// UntagProduct detaches a tag from a product. Detaching an absent tag is
// a no-op.
func (s *Service) UntagProduct(productID string, tagID uuid.UUID) error {
	return s.tags.Detach(productID, tagID)
}
