package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, the institution types, and a small category tree. It is a
// no-op when users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@bankcat.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Institution types.
	for _, it := range [][2]string{
		{"bank", "Licensed Commercial Bank"},
		{"finance", "Licensed Finance Company"},
		{"insurance", "Insurance Provider"},
	} {
		_, err = db.Exec(`
			INSERT INTO institution_types (code, name)
			VALUES ($1, $2)
			ON CONFLICT (code) DO NOTHING
		`, it[0], it[1])
		if err != nil {
			return fmt.Errorf("seed institution type %s: %w", it[0], err)
		}
	}

	// Root categories with one child each.
	for _, c := range [][2]string{
		{"Deposits", "deposits"},
		{"Loans", "loans"},
		{"Cards", "cards"},
	} {
		var rootID string
		err = db.QueryRow(`
			INSERT INTO product_categories (name, slug, level)
			VALUES ($1, $2, 0)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, c[0], c[1]).Scan(&rootID)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c[1], err)
		}

		_, err = db.Exec(`
			INSERT INTO product_categories (name, slug, parent_id, level)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (slug) DO NOTHING
		`, "Personal "+c[0], "personal-"+c[1], rootID)
		if err != nil {
			return fmt.Errorf("seed child category %s: %w", c[1], err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@bankcat.local",
		"password", "admin",
	)

	return nil
}
