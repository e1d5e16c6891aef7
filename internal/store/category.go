// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bankcat/internal/models"
)

// CategoryStore manages product categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, level, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.Level, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryFilter narrows FindAll results. ParentID and RootsOnly are
// mutually exclusive: a set ParentID filters to that parent's children,
// RootsOnly filters to categories with no parent, and neither means no
// parent filter at all.
type CategoryFilter struct {
	ParentID  *uuid.UUID
	RootsOnly bool
	Level     *int
}

// FindAll returns categories matching the filter, ordered by name.
func (s *CategoryStore) FindAll(f CategoryFilter) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM product_categories WHERE 1=1`
	var args []any

	switch {
	case f.RootsOnly:
		query += ` AND parent_id IS NULL`
	case f.ParentID != nil:
		args = append(args, *f.ParentID)
		query += fmt.Sprintf(` AND parent_id = $%d`, len(args))
	}
	if f.Level != nil {
		args = append(args, *f.Level)
		query += fmt.Sprintf(` AND level = $%d`, len(args))
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Hierarchy returns root categories with one level of children eagerly
// attached. Callers needing deeper trees must re-query per node.
func (s *CategoryStore) Hierarchy() ([]models.Category, error) {
	roots, err := s.FindAll(CategoryFilter{RootsOnly: true})
	if err != nil {
		return nil, err
	}

	for i := range roots {
		id := roots[i].ID
		children, err := s.FindAll(CategoryFilter{ParentID: &id})
		if err != nil {
			return nil, err
		}
		roots[i].Children = children
	}
	return roots, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM product_categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM product_categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. Level must already be
// derived by the caller; the store persists what it is given.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO product_categories (name, slug, description, parent_id, level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.Level,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE product_categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			level = $5, updated_at = NOW()
		WHERE id = $6
	`, c.Name, c.Slug, c.Description, c.ParentID, c.Level, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. The "no children, no referencing
// product types or products" guards live in the catalog service, not here.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// CountChildren returns the number of direct children of a category.
func (s *CategoryStore) CountChildren(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM product_categories WHERE parent_id = $1`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count category children: %w", err)
	}
	return count, nil
}
