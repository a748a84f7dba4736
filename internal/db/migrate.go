package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Schema selects which set of tables a database carries. The client keeps
// its credential and outbox; the development server keeps accounts and
// practice history.
type Schema int

const (
	ClientSchema Schema = iota
	ServerSchema
)

func (s Schema) String() string {
	switch s {
	case ClientSchema:
		return "client"
	case ServerSchema:
		return "server"
	default:
		return fmt.Sprintf("schema(%d)", int(s))
	}
}

var clientMigrations = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		id         INTEGER PRIMARY KEY CHECK(id = 1),
		token      TEXT NOT NULL,
		username   TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		saved_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pending_sessions (
		id               TEXT PRIMARY KEY,
		duration_seconds INTEGER NOT NULL CHECK(duration_seconds > 0),
		recorded_at      TEXT NOT NULL,
		attempts         INTEGER NOT NULL DEFAULT 0,
		last_error       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pending_recorded ON pending_sessions(recorded_at)`,
	`ALTER TABLE pending_sessions ADD COLUMN practiced_on TEXT NOT NULL DEFAULT ''`,
}

var serverMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT,
		age           INTEGER CHECK(age IS NULL OR age >= 0),
		gender        TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS practice_sessions (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		duration_seconds INTEGER NOT NULL CHECK(duration_seconds > 0),
		practiced_on     TEXT NOT NULL,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_practice_user_day ON practice_sessions(user_id, practiced_on)`,
}

func migrationsFor(schema Schema) ([]string, error) {
	switch schema {
	case ClientSchema:
		return clientMigrations, nil
	case ServerSchema:
		return serverMigrations, nil
	default:
		return nil, fmt.Errorf("unknown schema %d", int(schema))
	}
}

// Migrate runs all migrations for schema. Statements are re-run on every
// open, so each one must be idempotent.
func Migrate(db *sql.DB, schema Schema) error {
	stmts, err := migrationsFor(schema)
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("%s migration %d: %w", schema, i, err)
		}
	}
	return nil
}
