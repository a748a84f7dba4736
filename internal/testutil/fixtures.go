package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/being/internal/domain"
)

var accountCounter atomic.Int64

// Account options
type AccountOption func(*domain.Account)

func WithEmail(email string) AccountOption {
	return func(a *domain.Account) {
		a.Email = email
	}
}

func WithProfile(name string, age int, gender string) AccountOption {
	return func(a *domain.Account) {
		a.Name = name
		a.Age = &age
		a.Gender = gender
	}
}

func WithCreatedAt(t time.Time) AccountOption {
	return func(a *domain.Account) {
		a.CreatedAt = t
	}
}

func WithPasswordHash(hash string) AccountOption {
	return func(a *domain.Account) {
		a.PasswordHash = hash
	}
}

// NewTestAccount returns an unsaved account with a unique email.
func NewTestAccount(username string, opts ...AccountOption) *domain.Account {
	n := accountCounter.Add(1)
	a := &domain.Account{
		User: domain.User{
			ID:       uuid.New().String(),
			Username: username,
			Email:    fmt.Sprintf("%s.%d@example.com", username, n),
		},
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Pending session options
type PendingOption func(*domain.PendingSession)

func WithRecordedAt(t time.Time) PendingOption {
	return func(p *domain.PendingSession) {
		p.RecordedAt = t
		p.PracticedOn = domain.DateOf(t)
	}
}

func WithAttempts(n int, lastErr string) PendingOption {
	return func(p *domain.PendingSession) {
		p.Attempts = n
		p.LastError = lastErr
	}
}

// NewTestPendingSession returns an unsaved outbox entry recorded now.
func NewTestPendingSession(durationSeconds int, opts ...PendingOption) *domain.PendingSession {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.PendingSession{
		ID:              uuid.New().String(),
		DurationSeconds: durationSeconds,
		PracticedOn:     domain.DateOf(now),
		RecordedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestPracticeSession returns an unsaved server practice record.
func NewTestPracticeSession(userID string, day domain.Date, durationSeconds int) *domain.PracticeSession {
	return &domain.PracticeSession{
		ID:              uuid.New().String(),
		UserID:          userID,
		DurationSeconds: durationSeconds,
		PracticedOn:     day,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}
