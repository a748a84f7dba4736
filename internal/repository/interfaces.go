package repository

import (
	"context"

	"github.com/alexanderramin/being/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = domain.ErrNotFound

// CredentialRepo stores the single logged-in credential of the client.
type CredentialRepo interface {
	Get(ctx context.Context) (*domain.Credential, error)
	Save(ctx context.Context, c *domain.Credential) error
	Clear(ctx context.Context) error
}

// PendingSessionRepo is the client outbox of sessions the service has not
// accepted yet.
type PendingSessionRepo interface {
	Enqueue(ctx context.Context, s *domain.PendingSession) error
	ListOldestFirst(ctx context.Context) ([]*domain.PendingSession, error)
	RecordFailure(ctx context.Context, id string, reason string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// UserRepo stores development-server accounts.
type UserRepo interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIdentifier matches either the username or the email.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// PracticeTotals aggregates one user's practice history.
type PracticeTotals struct {
	Days     int
	Sessions int
	Seconds  int
}

// PracticeSessionRepo stores development-server practice records.
type PracticeSessionRepo interface {
	Create(ctx context.Context, s *domain.PracticeSession) error
	// PracticedDays returns the distinct days in [from, to] with at least
	// one session, ascending.
	PracticedDays(ctx context.Context, userID string, from, to domain.Date) ([]domain.Date, error)
	Totals(ctx context.Context, userID string) (PracticeTotals, error)
}
