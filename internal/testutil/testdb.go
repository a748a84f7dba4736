package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/being/internal/db"
)

// NewTestDB creates an in-memory client database with all migrations
// applied. The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return newTestDB(t, db.ClientSchema)
}

// NewServerTestDB creates an in-memory development-server database.
func NewServerTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return newTestDB(t, db.ServerSchema)
}

func newTestDB(t *testing.T, schema db.Schema) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:", schema)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
