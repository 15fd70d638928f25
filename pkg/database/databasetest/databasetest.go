// Package databasetest provides database fixtures for tests.
package databasetest

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/sahaya-relief/camp-api/pkg/database"
)

// NewDB creates a fresh in-memory SQLite database with the schema applied.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := database.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
