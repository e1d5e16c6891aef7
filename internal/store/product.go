// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bankcat/internal/fields"
	"bankcat/internal/models"
)

// ProductStore manages products in the database.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `p.id, p.institution_id, p.category_id, p.product_type_id,
	p.name, p.slug, p.details, p.is_active, p.is_featured, p.created_at, p.updated_at`

// scanProduct scans a products row, decoding the JSONB details column
// into the typed attribute bag.
func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var details []byte
	err := scanner.Scan(
		&p.ID, &p.InstitutionID, &p.CategoryID, &p.ProductTypeID,
		&p.Name, &p.Slug, &details, &p.IsActive, &p.IsFeatured,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &p.Details); err != nil {
			return nil, fmt.Errorf("decode product details: %w", err)
		}
	}
	return &p, nil
}

// encodeBag marshals the attribute bag for storage, mapping an absent
// bag to SQL NULL so "has any attribute bag at all" stays queryable.
func encodeBag(bag fields.Bag) (any, error) {
	if bag == nil {
		return nil, nil
	}
	data, err := json.Marshal(bag)
	if err != nil {
		return nil, fmt.Errorf("encode product details: %w", err)
	}
	return data, nil
}

// ProductFilter narrows product listings. CategoryID matches products in
// the category itself or in any of its direct children (one level up).
type ProductFilter struct {
	CategoryID    *uuid.UUID
	InstitutionID *uuid.UUID
	ProductTypeID *uuid.UUID
	IsActive      *bool
	IsFeatured    *bool
	ProductIDs    []string
	Search        string
	Sort          string // "name", "created_at", "updated_at"
	Order         string // "asc", "desc"
	Limit         int
	Offset        int
}

// allowed sort columns, guarding against SQL injection through Sort.
var productSortColumns = map[string]string{
	"name":       "p.name",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

// buildWhere renders the filter as a WHERE fragment plus its arguments.
func (f ProductFilter) buildWhere() (string, []any) {
	var clauses []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CategoryID != nil {
		ph := arg(*f.CategoryID)
		clauses = append(clauses, fmt.Sprintf(
			`(p.category_id = %s OR EXISTS (
				SELECT 1 FROM product_categories cc
				WHERE cc.id = p.category_id AND cc.parent_id = %s))`, ph, ph))
	}
	if f.InstitutionID != nil {
		clauses = append(clauses, "p.institution_id = "+arg(*f.InstitutionID))
	}
	if f.ProductTypeID != nil {
		clauses = append(clauses, "p.product_type_id = "+arg(*f.ProductTypeID))
	}
	if f.IsActive != nil {
		clauses = append(clauses, "p.is_active = "+arg(*f.IsActive))
	}
	if f.IsFeatured != nil {
		clauses = append(clauses, "p.is_featured = "+arg(*f.IsFeatured))
	}
	if len(f.ProductIDs) > 0 {
		placeholders := make([]string, len(f.ProductIDs))
		for i, id := range f.ProductIDs {
			placeholders[i] = arg(id)
		}
		clauses = append(clauses, "p.id IN ("+strings.Join(placeholders, ", ")+")")
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		ph := arg("%" + search + "%")
		clauses = append(clauses, fmt.Sprintf(`(
			p.name ILIKE %[1]s OR p.slug ILIKE %[1]s
			OR EXISTS (SELECT 1 FROM institutions i
				WHERE i.id = p.institution_id AND i.name ILIKE %[1]s)
			OR EXISTS (SELECT 1 FROM product_types pt
				WHERE pt.id = p.product_type_id AND pt.name ILIKE %[1]s)
			OR EXISTS (SELECT 1 FROM product_tag_map m
				JOIN tags t ON t.id = m.tag_id
				WHERE m.product_id = p.id AND t.name ILIKE %[1]s))`, ph))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns products matching the filter plus the total match count.
// Limit is capped at 100 and defaults to 20.
func (s *ProductStore) List(f ProductFilter) ([]models.Product, int, error) {
	where, args := f.buildWhere()

	var total int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products p`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	sortCol, ok := productSortColumns[f.Sort]
	if !ok {
		sortCol = "p.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM products p%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		productColumns, where, sortCol, dir, len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a product by ID. Returns nil if not found.
func (s *ProductStore) FindByID(id string) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// ListByIDs returns the active products among the given ids, newest
// first. Missing ids are silently dropped.
func (s *ProductStore) ListByIDs(ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	isActive := true
	items, _, err := s.List(ProductFilter{ProductIDs: ids, IsActive: &isActive, Limit: len(ids)})
	return items, err
}

// Create inserts a new product and returns it. The caller supplies the
// display ID and derived slug.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	details, err := encodeBag(p.Details)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO products (id, institution_id, category_id, product_type_id,
			name, slug, details, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+productColumns+``,
		p.ID, p.InstitutionID, p.CategoryID, p.ProductTypeID,
		p.Name, p.Slug, details, p.IsActive, p.IsFeatured,
	)
	result, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return result, nil
}

// Update modifies an existing product.
func (s *ProductStore) Update(p *models.Product) error {
	details, err := encodeBag(p.Details)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE products SET
			institution_id = $1, category_id = $2, product_type_id = $3,
			name = $4, slug = $5, details = $6, is_active = $7,
			is_featured = $8, updated_at = NOW()
		WHERE id = $9
	`, p.InstitutionID, p.CategoryID, p.ProductTypeID,
		p.Name, p.Slug, details, p.IsActive, p.IsFeatured, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SetActive flips a product's active flag.
func (s *ProductStore) SetActive(id string, active bool) error {
	_, err := s.db.Exec(`UPDATE products SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	return nil
}

// Delete removes a product row. Version and rate history rows survive
// until explicitly purged through their own stores.
func (s *ProductStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// CountByCategory returns how many products reference a category directly.
func (s *ProductStore) CountByCategory(categoryID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return count, nil
}

// CountByType returns how many products reference a product type.
func (s *ProductStore) CountByType(typeID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products WHERE product_type_id = $1`, typeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products by type: %w", err)
	}
	return count, nil
}

// CountByInstitution returns how many products an institution offers.
func (s *ProductStore) CountByInstitution(institutionID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products WHERE institution_id = $1`, institutionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products by institution: %w", err)
	}
	return count, nil
}

// BagsByType returns the non-null attribute bags of all products of a
// type, for field schema inference.
func (s *ProductStore) BagsByType(typeID uuid.UUID) ([]fields.Bag, error) {
	rows, err := s.db.Query(`
		SELECT details FROM products
		WHERE product_type_id = $1 AND details IS NOT NULL
	`, typeID)
	if err != nil {
		return nil, fmt.Errorf("list detail bags by type: %w", err)
	}
	defer rows.Close()

	var bags []fields.Bag
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan detail bag: %w", err)
		}
		var bag fields.Bag
		if err := json.Unmarshal(raw, &bag); err != nil {
			return nil, fmt.Errorf("decode detail bag: %w", err)
		}
		bags = append(bags, bag)
	}
	return bags, rows.Err()
}
