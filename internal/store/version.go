// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"bankcat/internal/models"
)

// VersionStore provides access to the append-only product version log.
// Rows are inserted and queried, never updated.
type VersionStore struct {
	db *sql.DB
}

// NewVersionStore returns a new VersionStore.
func NewVersionStore(db *sql.DB) *VersionStore {
	return &VersionStore{db: db}
}

const versionColumns = `id, product_id, version_number, snapshot, changed_by, change_note, created_at`

func scanVersion(scanner interface{ Scan(...any) error }) (*models.ProductVersion, error) {
	var v models.ProductVersion
	var snapshot []byte
	err := scanner.Scan(
		&v.ID, &v.ProductID, &v.VersionNumber, &snapshot,
		&v.ChangedBy, &v.ChangeNote, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &v.Snapshot); err != nil {
		return nil, fmt.Errorf("decode version snapshot: %w", err)
	}
	return &v, nil
}

// Append inserts the next version for a product. The version number is
// assigned inside the INSERT by reading the current maximum, so two
// concurrent appends cannot hand out the same number: the unique
// (product_id, version_number) constraint rejects the loser, which
// retries once.
func (s *VersionStore) Append(v *models.ProductVersion) (*models.ProductVersion, error) {
	snapshot, err := json.Marshal(v.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode version snapshot: %w", err)
	}

	insert := func() (*models.ProductVersion, error) {
		row := s.db.QueryRow(`
			INSERT INTO product_versions (product_id, version_number, snapshot, changed_by, change_note)
			SELECT $1, COALESCE(MAX(version_number), 0) + 1, $2, $3, $4
			FROM product_versions WHERE product_id = $1
			RETURNING `+versionColumns,
			v.ProductID, snapshot, v.ChangedBy, v.ChangeNote,
		)
		return scanVersion(row)
	}

	result, err := insert()
	if err != nil && isUniqueViolation(err) {
		result, err = insert()
	}
	if err != nil {
		return nil, fmt.Errorf("append product version: %w", err)
	}
	return result, nil
}

// ListByProduct returns up to limit versions for a product, newest first.
// A non-positive limit defaults to 20.
func (s *VersionStore) ListByProduct(productID string, limit int) ([]models.ProductVersion, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT `+versionColumns+`
		FROM product_versions
		WHERE product_id = $1
		ORDER BY version_number DESC
		LIMIT $2
	`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list product versions: %w", err)
	}
	defer rows.Close()

	var versions []models.ProductVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product version: %w", err)
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// FindByNumber returns one specific version of a product. Returns nil if
// not found.
func (s *VersionStore) FindByNumber(productID string, number int) (*models.ProductVersion, error) {
	row := s.db.QueryRow(`
		SELECT `+versionColumns+`
		FROM product_versions
		WHERE product_id = $1 AND version_number = $2
	`, productID, number)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product version: %w", err)
	}
	return v, nil
}

// Latest returns the most recent version of a product. Returns nil if
// the product has no versions.
func (s *VersionStore) Latest(productID string) (*models.ProductVersion, error) {
	row := s.db.QueryRow(`
		SELECT `+versionColumns+`
		FROM product_versions
		WHERE product_id = $1
		ORDER BY version_number DESC
		LIMIT 1
	`, productID)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest product version: %w", err)
	}
	return v, nil
}

// Count returns the number of versions for a product.
func (s *VersionStore) Count(productID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM product_versions WHERE product_id = $1`, productID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count product versions: %w", err)
	}
	return count, nil
}

// DeleteByProduct bulk-deletes every version of a product. Called
// explicitly after a product delete, never automatically.
func (s *VersionStore) DeleteByProduct(productID string) error {
	_, err := s.db.Exec(`DELETE FROM product_versions WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete product versions: %w", err)
	}
	return nil
}
