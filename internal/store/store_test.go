// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"marketpress/internal/database"
	"marketpress/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with the development defaults.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "marketpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "marketpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
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

// testUser creates a throwaway user and registers its cleanup.
func testUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	email := "test-" + uuid.NewString()[:8] + "@marketpress.test"
	u, err := NewUserStore(db).Create(context.Background(), email, "password123", "Test Creator")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// cleanContent removes test content (and its links, reviews, and orphaned
// categories) by path. Call in t.Cleanup().
func cleanContent(t *testing.T, db *sql.DB, paths ...string) {
	t.Helper()
	for _, path := range paths {
		var id uuid.UUID
		if err := db.QueryRow("SELECT id FROM content WHERE path = $1", path).Scan(&id); err != nil {
			continue
		}
		db.Exec("DELETE FROM reviews WHERE content_id = $1", id)
		db.Exec("DELETE FROM content_categories WHERE content_id = $1", id)
		db.Exec("DELETE FROM content WHERE id = $1", id)
	}
	db.Exec(`DELETE FROM categories c
		WHERE NOT EXISTS (SELECT 1 FROM content_categories cc WHERE cc.category_id = c.id)
		AND c.name LIKE 'test-%'`)
}

// cleanCategory removes a test category by name. Call in t.Cleanup().
func cleanCategory(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec(`DELETE FROM content_categories
			WHERE category_id = (SELECT id FROM categories WHERE name = $1)`, name)
		db.Exec("DELETE FROM categories WHERE name = $1", name)
	}
}
