package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/being/internal/db"
	"github.com/alexanderramin/being/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

const userColumns = `id, username, email, password_hash, name, age, gender, created_at, updated_at`

func (r *SQLiteUserRepo) Create(ctx context.Context, a *domain.Account) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = a.CreatedAt

	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Username,
		strings.ToLower(a.Email),
		a.PasswordHash,
		nullableStringToValue(a.Name),
		nullableIntToValue(a.Age),
		nullableStringToValue(a.Gender),
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	a.Email = strings.ToLower(a.Email)
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ? OR email = ? LIMIT 1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, identifier, strings.ToLower(identifier)))
}

func (r *SQLiteUserRepo) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = time.Now().UTC()
	query := `UPDATE users SET email = ?, name = ?, age = ?, gender = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		strings.ToLower(a.Email),
		nullableStringToValue(a.Name),
		nullableIntToValue(a.Age),
		nullableStringToValue(a.Gender),
		formatTime(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("updating user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, passwordHash, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteUserRepo) scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	var name, gender sql.NullString
	var age sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &name, &age, &gender, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	a.Name = name.String
	a.Gender = gender.String
	a.Age = nullIntToPtr(age)
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &a, nil
}
