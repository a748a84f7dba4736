package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/being/internal/db"
	"github.com/alexanderramin/being/internal/domain"
)

// SQLitePracticeSessionRepo implements PracticeSessionRepo using a SQLite
// database.
type SQLitePracticeSessionRepo struct {
	db db.DBTX
}

func NewSQLitePracticeSessionRepo(conn db.DBTX) *SQLitePracticeSessionRepo {
	return &SQLitePracticeSessionRepo{db: conn}
}

func (r *SQLitePracticeSessionRepo) Create(ctx context.Context, s *domain.PracticeSession) error {
	if s.DurationSeconds <= 0 {
		return fmt.Errorf("session duration %d: %w", s.DurationSeconds, domain.ErrInvalidInput)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO practice_sessions (id, user_id, duration_seconds, practiced_on, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.DurationSeconds,
		s.PracticedOn.String(),
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting practice session: %w", err)
	}
	return nil
}

func (r *SQLitePracticeSessionRepo) PracticedDays(ctx context.Context, userID string, from, to domain.Date) ([]domain.Date, error) {
	query := `SELECT DISTINCT practiced_on FROM practice_sessions
		WHERE user_id = ? AND practiced_on BETWEEN ? AND ?
		ORDER BY practiced_on`
	rows, err := r.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("listing practiced days: %w", err)
	}
	defer rows.Close()

	var days []domain.Date
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning practiced day: %w", err)
		}
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating practiced days: %w", err)
	}
	return days, nil
}

func (r *SQLitePracticeSessionRepo) Totals(ctx context.Context, userID string) (PracticeTotals, error) {
	query := `SELECT COUNT(DISTINCT practiced_on), COUNT(*), COALESCE(SUM(duration_seconds), 0)
		FROM practice_sessions WHERE user_id = ?`
	var t PracticeTotals
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&t.Days, &t.Sessions, &t.Seconds); err != nil {
		return PracticeTotals{}, fmt.Errorf("summing practice sessions: %w", err)
	}
	return t, nil
}
