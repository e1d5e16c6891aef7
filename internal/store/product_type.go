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

// ProductTypeStore manages product types in the database.
type ProductTypeStore struct {
	db *sql.DB
}

// NewProductTypeStore returns a new ProductTypeStore.
func NewProductTypeStore(db *sql.DB) *ProductTypeStore {
	return &ProductTypeStore{db: db}
}

const productTypeColumns = `id, category_id, code, name, created_at, updated_at`

func scanProductType(scanner interface{ Scan(...any) error }) (*models.ProductType, error) {
	var t models.ProductType
	err := scanner.Scan(&t.ID, &t.CategoryID, &t.Code, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns product types, optionally filtered by category, ordered by name.
func (s *ProductTypeStore) List(categoryID *uuid.UUID) ([]models.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_types`
	var args []any
	if categoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	defer rows.Close()

	var items []models.ProductType
	for rows.Next() {
		t, err := scanProductType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a product type by ID. Returns nil if not found.
func (s *ProductTypeStore) FindByID(id uuid.UUID) (*models.ProductType, error) {
	row := s.db.QueryRow(`SELECT `+productTypeColumns+` FROM product_types WHERE id = $1`, id)
	t, err := scanProductType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product type by id: %w", err)
	}
	return t, nil
}

// FindByCode retrieves a product type by its unique code. Returns nil if
// not found.
func (s *ProductTypeStore) FindByCode(code string) (*models.ProductType, error) {
	row := s.db.QueryRow(`SELECT `+productTypeColumns+` FROM product_types WHERE code = $1`, code)
	t, err := scanProductType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product type by code: %w", err)
	}
	return t, nil
}

// Create inserts a new product type and returns it.
func (s *ProductTypeStore) Create(t *models.ProductType) (*models.ProductType, error) {
	row := s.db.QueryRow(`
		INSERT INTO product_types (category_id, code, name)
		VALUES ($1, $2, $3)
		RETURNING `+productTypeColumns,
		t.CategoryID, t.Code, t.Name,
	)
	result, err := scanProductType(row)
	if err != nil {
		return nil, fmt.Errorf("create product type: %w", err)
	}
	return result, nil
}

// Update modifies an existing product type.
func (s *ProductTypeStore) Update(t *models.ProductType) error {
	_, err := s.db.Exec(`
		UPDATE product_types SET
			category_id = $1, code = $2, name = $3, updated_at = NOW()
		WHERE id = $4
	`, t.CategoryID, t.Code, t.Name, t.ID)
	if err != nil {
		return fmt.Errorf("update product type: %w", err)
	}
	return nil
}

// Delete removes a product type by ID. The "no referencing products"
// guard lives in the catalog service.
func (s *ProductTypeStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM product_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product type: %w", err)
	}
	return nil
}

// CountByCategory returns how many product types reference a category.
func (s *ProductTypeStore) CountByCategory(categoryID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM product_types WHERE category_id = $1`, categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count product types by category: %w", err)
	}
	return count, nil
}
