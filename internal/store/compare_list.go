// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"bankcat/internal/models"
)

// CompareListStore manages named product comparison lists. The product
// id set is stored as a JSONB array on the row.
type CompareListStore struct {
	db *sql.DB
}

// NewCompareListStore returns a new CompareListStore.
func NewCompareListStore(db *sql.DB) *CompareListStore {
	return &CompareListStore{db: db}
}

const compareListColumns = `id, user_id, name, product_ids, created_at, updated_at`

func scanCompareList(scanner interface{ Scan(...any) error }) (*models.CompareList, error) {
	var cl models.CompareList
	var ids []byte
	err := scanner.Scan(&cl.ID, &cl.UserID, &cl.Name, &ids, &cl.CreatedAt, &cl.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err := json.Unmarshal(ids, &cl.ProductIDs); err != nil {
			return nil, fmt.Errorf("decode product ids: %w", err)
		}
	}
	return &cl, nil
}

func encodeProductIDs(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode product ids: %w", err)
	}
	return data, nil
}

// ListByUser returns the user's compare lists, most recently updated first.
func (s *CompareListStore) ListByUser(userID uuid.UUID) ([]models.CompareList, error) {
	rows, err := s.db.Query(`
		SELECT `+compareListColumns+`
		FROM compare_lists
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list compare lists: %w", err)
	}
	defer rows.Close()

	var lists []models.CompareList
	for rows.Next() {
		cl, err := scanCompareList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan compare list: %w", err)
		}
		lists = append(lists, *cl)
	}
	return lists, rows.Err()
}

// FindByID returns a compare list by id, or nil when absent.
func (s *CompareListStore) FindByID(id uuid.UUID) (*models.CompareList, error) {
	row := s.db.QueryRow(`
		SELECT `+compareListColumns+` FROM compare_lists WHERE id = $1
	`, id)
	cl, err := scanCompareList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find compare list: %w", err)
	}
	return cl, nil
}

// Create inserts a new compare list. The (user, name) pair is unique.
func (s *CompareListStore) Create(userID uuid.UUID, name string, productIDs []string) (*models.CompareList, error) {
	ids, err := encodeProductIDs(productIDs)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(`
		INSERT INTO compare_lists (user_id, name, product_ids)
		VALUES ($1, $2, $3)
		RETURNING `+compareListColumns+`
	`, userID, name, ids)
	cl, err := scanCompareList(row)
	if err != nil {
		return nil, fmt.Errorf("create compare list: %w", err)
	}
	return cl, nil
}

// Update replaces the list's name and product id set.
func (s *CompareListStore) Update(id uuid.UUID, name string, productIDs []string) (*models.CompareList, error) {
	ids, err := encodeProductIDs(productIDs)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(`
		UPDATE compare_lists
		SET name = $2, product_ids = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+compareListColumns+`
	`, id, name, ids)
	cl, err := scanCompareList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update compare list: %w", err)
	}
	return cl, nil
}

// Delete removes a compare list.
func (s *CompareListStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM compare_lists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete compare list: %w", err)
	}
	return nil
}
