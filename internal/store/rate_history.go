// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"bankcat/internal/models"
)

// RateHistoryStore provides access to the append-only per-product metric
// time series. Entries are inserted, queried, and bulk-deleted per
// product, never mutated.
type RateHistoryStore struct {
	db *sql.DB
}

// NewRateHistoryStore returns a new RateHistoryStore.
func NewRateHistoryStore(db *sql.DB) *RateHistoryStore {
	return &RateHistoryStore{db: db}
}

const rateHistoryColumns = `id, product_id, metric, value, currency, source, recorded_at`

func scanRateEntry(scanner interface{ Scan(...any) error }) (*models.RateHistoryEntry, error) {
	var e models.RateHistoryEntry
	err := scanner.Scan(
		&e.ID, &e.ProductID, &e.Metric, &e.Value,
		&e.Currency, &e.Source, &e.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create appends a new rate history entry. RecordedAt defaults to now
// when unset.
func (s *RateHistoryStore) Create(e *models.RateHistoryEntry) (*models.RateHistoryEntry, error) {
	recordedAt := e.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	row := s.db.QueryRow(`
		INSERT INTO product_rate_history (product_id, metric, value, currency, source, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+rateHistoryColumns,
		e.ProductID, e.Metric, e.Value, e.Currency, e.Source, recordedAt,
	)
	result, err := scanRateEntry(row)
	if err != nil {
		return nil, fmt.Errorf("create rate history entry: %w", err)
	}
	return result, nil
}

// RateHistoryFilter narrows ListByProduct results.
type RateHistoryFilter struct {
	Metric string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// ListByProduct returns entries for a product, newest first, optionally
// filtered by metric and recorded-at range. A non-positive limit
// defaults to 100.
func (s *RateHistoryStore) ListByProduct(productID string, f RateHistoryFilter) ([]models.RateHistoryEntry, error) {
	query := `SELECT ` + rateHistoryColumns + ` FROM product_rate_history WHERE product_id = $1`
	args := []any{productID}

	if f.Metric != "" {
		args = append(args, f.Metric)
		query += fmt.Sprintf(` AND metric = $%d`, len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(` AND recorded_at >= $%d`, len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(` AND recorded_at <= $%d`, len(args))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY recorded_at DESC LIMIT $%d`, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rate history: %w", err)
	}
	defer rows.Close()

	var entries []models.RateHistoryEntry
	for rows.Next() {
		e, err := scanRateEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rate history entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Latest returns the most recent entry for a product and metric.
// Returns nil when no entries match.
func (s *RateHistoryStore) Latest(productID, metric string) (*models.RateHistoryEntry, error) {
	row := s.db.QueryRow(`
		SELECT `+rateHistoryColumns+`
		FROM product_rate_history
		WHERE product_id = $1 AND metric = $2
		ORDER BY recorded_at DESC
		LIMIT 1
	`, productID, metric)
	e, err := scanRateEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest rate history entry: %w", err)
	}
	return e, nil
}

// DeleteByProduct bulk-deletes every entry of a product.
func (s *RateHistoryStore) DeleteByProduct(productID string) error {
	_, err := s.db.Exec(`DELETE FROM product_rate_history WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete rate history: %w", err)
	}
	return nil
}
