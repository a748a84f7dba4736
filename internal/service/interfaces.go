package service

import (
	"context"

	"github.com/alexanderramin/being/internal/calendar"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/stats"
)

// SignupRequest carries the fields of a new account.
type SignupRequest struct {
	Email    string
	Username string
	Password string
}

type AuthService interface {
	// Signup creates the account and logs straight in.
	Signup(ctx context.Context, req SignupRequest) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	// Current returns the stored credential, clearing it first if the token
	// has expired. It does not call the service.
	Current(ctx context.Context) (*domain.Credential, error)
	Profile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error)
	ResetPassword(ctx context.Context, oldPassword, newPassword string) error
	// Token satisfies gateway.TokenSource.
	Token(ctx context.Context) (string, error)
}

// SyncResult reports an outbox replay.
type SyncResult struct {
	Sent      int
	Failed    int
	Remaining int
}

type PracticeService interface {
	// RecordSession saves one finished session. When the service cannot
	// take it, the session is queued locally and the error wraps
	// domain.ErrPersistence.
	RecordSession(ctx context.Context, durationSeconds int) error
	// CheckIn converts amount in unit to seconds and records it. It
	// returns the recorded seconds.
	CheckIn(ctx context.Context, amount int, unit domain.DurationUnit) (int, error)
	Sync(ctx context.Context) (SyncResult, error)
	PendingCount(ctx context.Context) (int, error)
}

// MonthView is one calendar month ready for display.
type MonthView struct {
	Period  calendar.Period
	Cells   []calendar.Cell
	Summary calendar.Summary
}

type StatsService interface {
	Snapshot(ctx context.Context) (*stats.Snapshot, error)
	Month(ctx context.Context, period calendar.Period) (*MonthView, error)
}
