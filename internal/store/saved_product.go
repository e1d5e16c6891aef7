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

// SavedProductStore manages each user's set of saved products.
type SavedProductStore struct {
	db *sql.DB
}

// NewSavedProductStore returns a new SavedProductStore.
func NewSavedProductStore(db *sql.DB) *SavedProductStore {
	return &SavedProductStore{db: db}
}

// IDsByUser returns every product id the user has saved, in one query.
// Callers enriching product listings with an is_saved flag must use this
// bulk form, never a per-row existence check.
func (s *SavedProductStore) IDsByUser(userID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(`SELECT product_id FROM saved_products WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved product ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan saved product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists reports whether the user has saved the product.
func (s *SavedProductStore) Exists(userID uuid.UUID, productID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM saved_products WHERE user_id = $1 AND product_id = $2)
	`, userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check saved product: %w", err)
	}
	return exists, nil
}

// Save records a product as saved by the user. Saving an already saved
// product surfaces the unique-constraint conflict.
func (s *SavedProductStore) Save(userID uuid.UUID, productID string) (*models.SavedProduct, error) {
	var sp models.SavedProduct
	err := s.db.QueryRow(`
		INSERT INTO saved_products (user_id, product_id)
		VALUES ($1, $2)
		RETURNING id, user_id, product_id, created_at
	`, userID, productID).Scan(&sp.ID, &sp.UserID, &sp.ProductID, &sp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return &sp, nil
}

// Unsave removes a product from the user's saved set. Reports whether a
// row was actually removed.
func (s *SavedProductStore) Unsave(userID uuid.UUID, productID string) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM saved_products WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return false, fmt.Errorf("unsave product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unsave product: %w", err)
	}
	return n > 0, nil
}

// ListByUser returns the user's saved rows, newest first.
func (s *SavedProductStore) ListByUser(userID uuid.UUID) ([]models.SavedProduct, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, product_id, created_at
		FROM saved_products
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved products: %w", err)
	}
	defer rows.Close()

	var items []models.SavedProduct
	for rows.Next() {
		var sp models.SavedProduct
		if err := rows.Scan(&sp.ID, &sp.UserID, &sp.ProductID, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved product: %w", err)
		}
		items = append(items, sp)
	}
	return items, rows.Err()
}
