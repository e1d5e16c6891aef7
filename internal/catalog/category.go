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

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// ListCategories returns categories matching the filter.
func (s *Service) ListCategories(f store.CategoryFilter) ([]models.Category, error) {
	return s.categories.FindAll(f)
}

// CategoryHierarchy returns root categories with one level of children.
func (s *Service) CategoryHierarchy() ([]models.Category, error) {
	return s.categories.Hierarchy()
}

// GetCategory returns a category by id.
func (s *Service) GetCategory(id uuid.UUID) (*models.Category, error) {
	cat, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrNotFound("Category not found")
	}
	return cat, nil
}

// GetCategoryBySlug returns a category by slug.
func (s *Service) GetCategoryBySlug(categorySlug string) (*models.Category, error) {
	cat, err := s.categories.FindBySlug(categorySlug)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrNotFound("Category not found")
	}
	return cat, nil
}

// CreateCategory inserts a category, deriving the slug from the name and
// the level from the parent. An unknown parent id is rejected.
func (s *Service) CreateCategory(in CategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, ErrValidation("Category name is required", nil)
	}

	level, err := s.parentLevel(in.ParentID)
	if err != nil {
		return nil, err
	}

	cat, err := s.categories.Create(&models.Category{
		Name:        in.Name,
		Slug:        slug.Generate(in.Name),
		Description: in.Description,
		ParentID:    in.ParentID,
		Level:       level,
	})
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("A category with this slug already exists")
		}
		if store.IsForeignKeyViolation(err) {
			return nil, ErrValidation("Unknown parent category", nil)
		}
		return nil, err
	}
	return cat, nil
}

// parentLevel resolves the level a category gets under the given parent.
// A nil parent means root (level 0); an unknown parent is an error.
func (s *Service) parentLevel(parentID *uuid.UUID) (int, error) {
	if parentID == nil {
		return 0, nil
	}
	parent, err := s.categories.FindByID(*parentID)
	if err != nil {
		return 0, err
	}
	if parent == nil {
		return 0, ErrValidation("Unknown parent category", nil)
	}
	return parent.Level + 1, nil
}

// UpdateCategory modifies a category. Reparenting is cycle-checked and
// recomputes the category's own level; descendants keep their stored
// levels.
func (s *Service) UpdateCategory(id uuid.UUID, in CategoryInput) (*models.Category, error) {
	cat, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, ErrValidation("Category name is required", nil)
	}

	if in.ParentID != nil {
		cycle, err := wouldCycle(s.categories.FindByID, id, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, ErrValidation("Category cannot be its own ancestor", nil)
		}
	}

	level, err := s.parentLevel(in.ParentID)
	if err != nil {
		return nil, err
	}

	cat.Name = in.Name
	cat.Slug = slug.Generate(in.Name)
	cat.Description = in.Description
	cat.ParentID = in.ParentID
	cat.Level = level

	if err := s.categories.Update(cat); err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("A category with this slug already exists")
		}
		if store.IsForeignKeyViolation(err) {
			return nil, ErrValidation("Unknown parent category", nil)
		}
		return nil, err
	}
	return cat, nil
}

// DeleteCategory removes a category after checking nothing references
// it. The checks and the delete are separate statements; a write racing
// between them wins.
func (s *Service) DeleteCategory(id uuid.UUID) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}

	children, err := s.categories.CountChildren(id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrValidation("Category has child categories and cannot be deleted", nil)
	}

	types, err := s.productTypes.CountByCategory(id)
	if err != nil {
		return err
	}
	if types > 0 {
		return ErrValidation("Category has product types and cannot be deleted", nil)
	}

	products, err := s.products.CountByCategory(id)
	if err != nil {
		return err
	}
	if products > 0 {
		return ErrValidation("Category has products and cannot be deleted", nil)
	}

	return s.categories.Delete(id)
}

// ProductTypeInput carries the writable product type fields.
type ProductTypeInput struct {
	CategoryID uuid.UUID `json:"category_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// ListProductTypes returns product types, optionally per category.
func (s *Service) ListProductTypes(categoryID *uuid.UUID) ([]models.ProductType, error) {
	return s.productTypes.List(categoryID)
}

// GetProductType returns a product type by id.
func (s *Service) GetProductType(id uuid.UUID) (*models.ProductType, error) {
	pt, err := s.productTypes.FindByID(id)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, ErrNotFound("Product type not found")
	}
	return pt, nil
}

// CreateProductType inserts a product type under an existing category.
func (s *Service) CreateProductType(in ProductTypeInput) (*models.ProductType, error) {
	if in.Code == "" || in.Name == "" {
		return nil, ErrValidation("Product type code and name are required", nil)
	}
	if _, err := s.GetCategory(in.CategoryID); err != nil {
		return nil, err
	}

	pt, err := s.productTypes.Create(&models.ProductType{
		CategoryID: in.CategoryID,
		Code:       in.Code,
		Name:       in.Name,
	})
	if err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("A product type with this code already exists")
		}
		return nil, err
	}
	return pt, nil
}

// GetProductTypeByCode returns one product type by its unique code.
func (s *Service) GetProductTypeByCode(code string) (*models.ProductType, error) {
	pt, err := s.productTypes.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, ErrNotFound("Product type not found")
	}
	return pt, nil
}

// UpdateProductType modifies a product type.
func (s *Service) UpdateProductType(id uuid.UUID, in ProductTypeInput) (*models.ProductType, error) {
	pt, err := s.GetProductType(id)
	if err != nil {
		return nil, err
	}
	if in.Code == "" || in.Name == "" {
		return nil, ErrValidation("Product type code and name are required", nil)
	}
	if _, err := s.GetCategory(in.CategoryID); err != nil {
		return nil, err
	}

	pt.CategoryID = in.CategoryID
	pt.Code = in.Code
	pt.Name = in.Name
	if err := s.productTypes.Update(pt); err != nil {
		if store.IsConflict(err) {
			return nil, ErrConflict("A product type with this code already exists")
		}
		return nil, err
	}
	return pt, nil
}

// DeleteProductType removes a product type unless products reference it.
func (s *Service) DeleteProductType(id uuid.UUID) error {
	if _, err := s.GetProductType(id); err != nil {
		return err
	}

	count, err := s.products.CountByType(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrValidation("Product type is in use and cannot be deleted", nil)
	}
	return s.productTypes.Delete(id)
}
