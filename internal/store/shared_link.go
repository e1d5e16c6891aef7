// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bankcat/internal/models"
)

// SharedLinkStore manages tokenized product-set shares.
type SharedLinkStore struct {
	db *sql.DB
}

// NewSharedLinkStore returns a new SharedLinkStore.
func NewSharedLinkStore(db *sql.DB) *SharedLinkStore {
	return &SharedLinkStore{db: db}
}

const sharedLinkColumns = `id, user_id, token, product_ids, expires_at, created_at`

func scanSharedLink(scanner interface{ Scan(...any) error }) (*models.SharedLink, error) {
	var sl models.SharedLink
	var ids []byte
	err := scanner.Scan(&sl.ID, &sl.UserID, &sl.Token, &ids, &sl.ExpiresAt, &sl.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err := json.Unmarshal(ids, &sl.ProductIDs); err != nil {
			return nil, fmt.Errorf("decode product ids: %w", err)
		}
	}
	return &sl, nil
}

// FindByToken returns the link for a share token, or nil when absent.
// Expiry is the caller's concern.
func (s *SharedLinkStore) FindByToken(token string) (*models.SharedLink, error) {
	row := s.db.QueryRow(`
		SELECT `+sharedLinkColumns+` FROM shared_links WHERE token = $1
	`, token)
	sl, err := scanSharedLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find shared link: %w", err)
	}
	return sl, nil
}

// Create inserts a new shared link.
func (s *SharedLinkStore) Create(userID uuid.UUID, token string, productIDs []string, expiresAt *time.Time) (*models.SharedLink, error) {
	ids, err := encodeProductIDs(productIDs)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(`
		INSERT INTO shared_links (user_id, token, product_ids, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+sharedLinkColumns+`
	`, userID, token, ids, expiresAt)
	sl, err := scanSharedLink(row)
	if err != nil {
		return nil, fmt.Errorf("create shared link: %w", err)
	}
	return sl, nil
}

// ListByUser returns the user's shared links, newest first.
func (s *SharedLinkStore) ListByUser(userID uuid.UUID) ([]models.SharedLink, error) {
	rows, err := s.db.Query(`
		SELECT `+sharedLinkColumns+`
		FROM shared_links
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list shared links: %w", err)
	}
	defer rows.Close()

	var links []models.SharedLink
	for rows.Next() {
		sl, err := scanSharedLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shared link: %w", err)
		}
		links = append(links, *sl)
	}
	return links, rows.Err()
}

// Delete removes a shared link.
func (s *SharedLinkStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM shared_links WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete shared link: %w", err)
	}
	return nil
}

// DeleteExpired drops links whose expiry has passed. Returns the number
// of rows removed.
func (s *SharedLinkStore) DeleteExpired() (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM shared_links WHERE expires_at IS NOT NULL AND expires_at < now()
	`)
	if err != nil {
		return 0, fmt.Errorf("delete expired shared links: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired shared links: %w", err)
	}
	return n, nil
}
