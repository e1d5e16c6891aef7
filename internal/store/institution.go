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

// InstitutionTypeStore manages institution type records.
type InstitutionTypeStore struct {
	db *sql.DB
}

// NewInstitutionTypeStore returns a new InstitutionTypeStore.
func NewInstitutionTypeStore(db *sql.DB) *InstitutionTypeStore {
	return &InstitutionTypeStore{db: db}
}

const institutionTypeColumns = `id, code, name, created_at, updated_at`

func scanInstitutionType(scanner interface{ Scan(...any) error }) (*models.InstitutionType, error) {
	var t models.InstitutionType
	err := scanner.Scan(&t.ID, &t.Code, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all institution types ordered by name.
func (s *InstitutionTypeStore) List() ([]models.InstitutionType, error) {
	rows, err := s.db.Query(`SELECT ` + institutionTypeColumns + ` FROM institution_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list institution types: %w", err)
	}
	defer rows.Close()

	var items []models.InstitutionType
	for rows.Next() {
		t, err := scanInstitutionType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan institution type: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves an institution type by ID. Returns nil if not found.
func (s *InstitutionTypeStore) FindByID(id uuid.UUID) (*models.InstitutionType, error) {
	row := s.db.QueryRow(`SELECT `+institutionTypeColumns+` FROM institution_types WHERE id = $1`, id)
	t, err := scanInstitutionType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find institution type by id: %w", err)
	}
	return t, nil
}

// FindByCode retrieves an institution type by its unique code. Returns
// nil if not found.
func (s *InstitutionTypeStore) FindByCode(code string) (*models.InstitutionType, error) {
	row := s.db.QueryRow(`SELECT `+institutionTypeColumns+` FROM institution_types WHERE code = $1`, code)
	t, err := scanInstitutionType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find institution type by code: %w", err)
	}
	return t, nil
}

// Create inserts a new institution type and returns it.
func (s *InstitutionTypeStore) Create(t *models.InstitutionType) (*models.InstitutionType, error) {
	row := s.db.QueryRow(`
		INSERT INTO institution_types (code, name)
		VALUES ($1, $2)
		RETURNING `+institutionTypeColumns,
		t.Code, t.Name,
	)
	result, err := scanInstitutionType(row)
	if err != nil {
		return nil, fmt.Errorf("create institution type: %w", err)
	}
	return result, nil
}

// Delete removes an institution type by ID.
func (s *InstitutionTypeStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM institution_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete institution type: %w", err)
	}
	return nil
}

// CountInstitutions returns how many institutions reference a type.
func (s *InstitutionTypeStore) CountInstitutions(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM institutions WHERE type_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count institutions by type: %w", err)
	}
	return count, nil
}

// InstitutionStore manages institutions in the database.
type InstitutionStore struct {
	db *sql.DB
}

// NewInstitutionStore returns a new InstitutionStore.
func NewInstitutionStore(db *sql.DB) *InstitutionStore {
	return &InstitutionStore{db: db}
}

const institutionColumns = `id, type_id, name, slug, country_code, logo_key, is_active, created_at, updated_at`

func scanInstitution(scanner interface{ Scan(...any) error }) (*models.Institution, error) {
	var i models.Institution
	err := scanner.Scan(
		&i.ID, &i.TypeID, &i.Name, &i.Slug, &i.CountryCode,
		&i.LogoKey, &i.IsActive, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// InstitutionFilter narrows institution listings.
type InstitutionFilter struct {
	TypeID      *uuid.UUID
	CountryCode string
	IsActive    *bool
}

// List returns institutions matching the filter, ordered by name.
func (s *InstitutionStore) List(f InstitutionFilter) ([]models.Institution, error) {
	query := `SELECT ` + institutionColumns + ` FROM institutions WHERE 1=1`
	var args []any

	if f.TypeID != nil {
		args = append(args, *f.TypeID)
		query += fmt.Sprintf(` AND type_id = $%d`, len(args))
	}
	if f.CountryCode != "" {
		args = append(args, f.CountryCode)
		query += fmt.Sprintf(` AND country_code = $%d`, len(args))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		query += fmt.Sprintf(` AND is_active = $%d`, len(args))
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer rows.Close()

	var items []models.Institution
	for rows.Next() {
		i, err := scanInstitution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// FindByID retrieves an institution by ID. Returns nil if not found.
func (s *InstitutionStore) FindByID(id uuid.UUID) (*models.Institution, error) {
	row := s.db.QueryRow(`SELECT `+institutionColumns+` FROM institutions WHERE id = $1`, id)
	i, err := scanInstitution(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find institution by id: %w", err)
	}
	return i, nil
}

// FindBySlug retrieves an institution by slug. Returns nil if not found.
func (s *InstitutionStore) FindBySlug(slug string) (*models.Institution, error) {
	row := s.db.QueryRow(`SELECT `+institutionColumns+` FROM institutions WHERE slug = $1`, slug)
	i, err := scanInstitution(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find institution by slug: %w", err)
	}
	return i, nil
}

// Create inserts a new institution and returns it.
func (s *InstitutionStore) Create(i *models.Institution) (*models.Institution, error) {
	row := s.db.QueryRow(`
		INSERT INTO institutions (type_id, name, slug, country_code, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+institutionColumns,
		i.TypeID, i.Name, i.Slug, i.CountryCode, i.IsActive,
	)
	result, err := scanInstitution(row)
	if err != nil {
		return nil, fmt.Errorf("create institution: %w", err)
	}
	return result, nil
}

// Update modifies an existing institution.
func (s *InstitutionStore) Update(i *models.Institution) error {
	_, err := s.db.Exec(`
		UPDATE institutions SET
			type_id = $1, name = $2, slug = $3, country_code = $4,
			logo_key = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`, i.TypeID, i.Name, i.Slug, i.CountryCode, i.LogoKey, i.IsActive, i.ID)
	if err != nil {
		return fmt.Errorf("update institution: %w", err)
	}
	return nil
}

// Delete removes an institution by ID.
func (s *InstitutionStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM institutions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete institution: %w", err)
	}
	return nil
}
