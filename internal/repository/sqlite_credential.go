package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/being/internal/db"
	"github.com/alexanderramin/being/internal/domain"
)

// SQLiteCredentialRepo implements CredentialRepo using a SQLite database.
// The table holds at most one row.
type SQLiteCredentialRepo struct {
	db db.DBTX
}

func NewSQLiteCredentialRepo(conn db.DBTX) *SQLiteCredentialRepo {
	return &SQLiteCredentialRepo{db: conn}
}

func (r *SQLiteCredentialRepo) Get(ctx context.Context) (*domain.Credential, error) {
	query := `SELECT token, username, email, saved_at FROM credentials WHERE id = 1`
	var c domain.Credential
	var savedAt string
	err := r.db.QueryRowContext(ctx, query).Scan(&c.Token, &c.Username, &c.Email, &savedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("credential: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning credential: %w", err)
	}
	c.SavedAt, err = time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing saved_at: %w", err)
	}
	return &c, nil
}

func (r *SQLiteCredentialRepo) Save(ctx context.Context, c *domain.Credential) error {
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now()
	}
	query := `INSERT OR REPLACE INTO credentials (id, token, username, email, saved_at)
		VALUES (1, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, c.Token, c.Username, c.Email, formatTime(c.SavedAt))
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

func (r *SQLiteCredentialRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}
