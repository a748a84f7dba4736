package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, schema Schema) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:", schema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestMigrate_Idempotent(t *testing.T) {
	for _, schema := range []Schema{ClientSchema, ServerSchema} {
		t.Run(schema.String(), func(t *testing.T) {
			db := openTestDB(t, schema)
			require.NoError(t, Migrate(db, schema))
			require.NoError(t, Migrate(db, schema))
		})
	}
}

func TestMigrate_ClientTables(t *testing.T) {
	db := openTestDB(t, ClientSchema)

	assert.True(t, tableExists(t, db, "credentials"))
	assert.True(t, tableExists(t, db, "pending_sessions"))
	assert.False(t, tableExists(t, db, "users"), "server tables stay out of the client store")
	assert.Contains(t, columnNames(t, db, "pending_sessions"), "practiced_on")
}

func TestMigrate_ServerTables(t *testing.T) {
	db := openTestDB(t, ServerSchema)

	assert.True(t, tableExists(t, db, "users"))
	assert.True(t, tableExists(t, db, "practice_sessions"))
	assert.False(t, tableExists(t, db, "pending_sessions"))

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_practice_user_day'`).Scan(&name)
	require.NoError(t, err)
}

func TestMigrate_UnknownSchema(t *testing.T) {
	db := openTestDB(t, ClientSchema)
	assert.Error(t, Migrate(db, Schema(42)))
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t, ServerSchema)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err := db.Exec(`INSERT INTO practice_sessions (id, user_id, duration_seconds, practiced_on, created_at)
		VALUES ('s1', 'missing-user', 60, '2024-02-01', '2024-02-01T00:00:00Z')`)
	assert.Error(t, err, "session must reference an existing user")
}

func TestMigrate_DurationCheck(t *testing.T) {
	db := openTestDB(t, ClientSchema)

	_, err := db.Exec(`INSERT INTO pending_sessions (id, duration_seconds, recorded_at) VALUES ('p1', 0, '2024-02-01T00:00:00Z')`)
	assert.Error(t, err, "zero-length sessions are rejected")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	db := openTestDB(t, ClientSchema)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	// In-memory databases report "memory"; WAL applies to file databases.
	assert.Equal(t, "memory", mode)
}

func TestOpenDB_FileDatabaseCreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/being.db"
	db, err := OpenDB(path, ClientSchema)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
