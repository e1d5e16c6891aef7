// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bankcat/internal/database"
	"bankcat/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "bankcat")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "bankcat")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM product_categories WHERE slug = $1", slug)
	}
}

// cleanInstitutions removes test institutions by slug. Call in t.Cleanup().
func cleanInstitutions(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM institutions WHERE slug = $1", slug)
	}
}

// cleanProducts removes test products and their dependent rows by product
// id. Call in t.Cleanup().
func cleanProducts(t *testing.T, db *sql.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM product_versions WHERE product_id = $1", id)
		db.Exec("DELETE FROM product_rate_history WHERE product_id = $1", id)
		db.Exec("DELETE FROM product_tag_map WHERE product_id = $1", id)
		db.Exec("DELETE FROM saved_products WHERE product_id = $1", id)
		db.Exec("DELETE FROM reviews WHERE product_id = $1", id)
		db.Exec("DELETE FROM products WHERE id = $1", id)
	}
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// testCategory creates a root category for fixtures and registers cleanup.
func testCategory(t *testing.T, db *sql.DB, name, slug string) *models.Category {
	t.Helper()
	cats := NewCategoryStore(db)
	t.Cleanup(func() { cleanCategories(t, db, slug) })
	cat, err := cats.Create(&models.Category{Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return cat
}

// testInstitution creates an institution under a fresh institution type
// and registers cleanup for both.
func testInstitution(t *testing.T, db *sql.DB, name, slug string) *models.Institution {
	t.Helper()
	types := NewInstitutionTypeStore(db)
	insts := NewInstitutionStore(db)

	code := "test-" + slug
	t.Cleanup(func() {
		cleanInstitutions(t, db, slug)
		db.Exec("DELETE FROM institution_types WHERE code = $1", code)
	})

	it, err := types.Create(&models.InstitutionType{Code: code, Name: "Test " + name})
	if err != nil {
		t.Fatalf("create test institution type: %v", err)
	}
	inst, err := insts.Create(&models.Institution{
		TypeID:      it.ID,
		Name:        name,
		Slug:        slug,
		CountryCode: "RO",
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("create test institution: %v", err)
	}
	return inst
}

// testUser creates a member user and registers cleanup.
func testUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	users := NewUserStore(db)
	t.Cleanup(func() { cleanUsers(t, db, email) })
	u, err := users.Create(email, "secret123", "Test User", models.RoleMember, nil)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

// testProduct creates a minimal product in the given category and
// institution and registers cleanup.
func testProduct(t *testing.T, db *sql.DB, id string, categoryID, institutionID uuid.UUID) *models.Product {
	t.Helper()
	products := NewProductStore(db)
	t.Cleanup(func() { cleanProducts(t, db, id) })
	p, err := products.Create(&models.Product{
		ID:            id,
		InstitutionID: institutionID,
		CategoryID:    categoryID,
		Name:          "Test Product " + id,
		Slug:          "test-product-" + id,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create test product: %v", err)
	}
	return p
}
