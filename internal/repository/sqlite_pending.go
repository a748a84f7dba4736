package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/being/internal/db"
	"github.com/alexanderramin/being/internal/domain"
)

// SQLitePendingSessionRepo implements PendingSessionRepo using a SQLite
// database.
type SQLitePendingSessionRepo struct {
	db db.DBTX
}

func NewSQLitePendingSessionRepo(conn db.DBTX) *SQLitePendingSessionRepo {
	return &SQLitePendingSessionRepo{db: conn}
}

func (r *SQLitePendingSessionRepo) Enqueue(ctx context.Context, s *domain.PendingSession) error {
	if s.DurationSeconds <= 0 {
		return fmt.Errorf("pending session duration %d: %w", s.DurationSeconds, domain.ErrInvalidInput)
	}
	query := `INSERT INTO pending_sessions (id, duration_seconds, practiced_on, recorded_at, attempts, last_error)
		VALUES (?, ?, ?, ?, ?, ?)`
	practicedOn := ""
	if !s.PracticedOn.IsZero() {
		practicedOn = s.PracticedOn.String()
	}
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.DurationSeconds,
		practicedOn,
		formatTime(s.RecordedAt),
		s.Attempts,
		nullableStringToValue(s.LastError),
	)
	if err != nil {
		return fmt.Errorf("inserting pending session: %w", err)
	}
	return nil
}

func (r *SQLitePendingSessionRepo) ListOldestFirst(ctx context.Context) ([]*domain.PendingSession, error) {
	query := `SELECT id, duration_seconds, practiced_on, recorded_at, attempts, last_error
		FROM pending_sessions ORDER BY recorded_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pending sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.PendingSession
	for rows.Next() {
		var s domain.PendingSession
		var practicedOn, recordedAt string
		var lastErr sql.NullString
		if err := rows.Scan(&s.ID, &s.DurationSeconds, &practicedOn, &recordedAt, &s.Attempts, &lastErr); err != nil {
			return nil, fmt.Errorf("scanning pending session row: %w", err)
		}
		if s.PracticedOn, err = parseOptionalDate(practicedOn); err != nil {
			return nil, fmt.Errorf("parsing practiced_on: %w", err)
		}
		if s.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}
		s.LastError = lastErr.String
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending sessions: %w", err)
	}
	return out, nil
}

func (r *SQLitePendingSessionRepo) RecordFailure(ctx context.Context, id string, reason string) error {
	query := `UPDATE pending_sessions SET attempts = attempts + 1, last_error = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, reason, id)
	if err != nil {
		return fmt.Errorf("recording pending session failure: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("pending session %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLitePendingSessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting pending session: %w", err)
	}
	return nil
}

func (r *SQLitePendingSessionRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting pending sessions: %w", err)
	}
	return n, nil
}
