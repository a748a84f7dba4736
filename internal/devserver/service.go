// Package devserver is a local implementation of the practice service API
// backed by SQLite. It lets the client run end to end without the hosted
// service.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexanderramin/being/internal/auth"
	"github.com/alexanderramin/being/internal/calendar"
	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/db"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/repository"
)

const minPasswordLen = 6

// Stats mirrors the GET /sessions/stats payload.
type Stats struct {
	TotalDays    int     `json:"totalDays"`
	MissedDays   int     `json:"missedDays"`
	TotalMinutes int     `json:"totalMinutes"`
	AvgDuration  float64 `json:"avgDuration"`
}

// Service holds the server-side account and practice logic.
type Service struct {
	users      repository.UserRepo
	sessions   repository.PracticeSessionRepo
	uow        db.UnitOfWork
	issuer     *auth.Issuer
	clk        clock.Clock
	bcryptCost int
}

func NewService(users repository.UserRepo, sessions repository.PracticeSessionRepo, uow db.UnitOfWork, issuer *auth.Issuer, clk clock.Clock, bcryptCost int) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		uow:        uow,
		issuer:     issuer,
		clk:        clk,
		bcryptCost: bcryptCost,
	}
}

// Signup creates an account.
func (s *Service) Signup(ctx context.Context, email, username, password string) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: email, username and password are required", domain.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	if strings.Contains(username, "@") {
		return nil, fmt.Errorf("%w: username may not contain @", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &domain.Account{
		User: domain.User{
			ID:       uuid.New().String(),
			Username: username,
			Email:    email,
		},
		PasswordHash: string(hash),
		CreatedAt:    s.clk.Now().UTC(),
	}
	if err := s.users.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Login checks the password of the account matching identifier (username
// or email) and returns a signed token.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, error) {
	a, err := s.users.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}

	token, err := s.issuer.Issue(a.ID, a.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its account.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	id, err := s.issuer.Validate(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	a, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return a, nil
}

// UpdateProfile applies the non-nil fields of upd.
func (s *Service) UpdateProfile(ctx context.Context, a *domain.Account, upd domain.ProfileUpdate) (*domain.Account, error) {
	if upd.Name != nil {
		a.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Age != nil {
		if *upd.Age < 0 {
			return nil, fmt.Errorf("%w: age must be non-negative", domain.ErrInvalidInput)
		}
		age := *upd.Age
		a.Age = &age
	}
	if upd.Gender != nil {
		a.Gender = strings.TrimSpace(*upd.Gender)
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
		}
		a.Email = email
	}
	if err := s.users.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ResetPassword replaces the password after checking the current one.
func (s *Service) ResetPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)

		a, err := txUsers.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(oldPassword)); err != nil {
			return fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidInput)
		}
		return txUsers.UpdatePassword(ctx, userID, string(hash))
	})
}

// LogSession stores one session. A zero day means today on the server.
func (s *Service) LogSession(ctx context.Context, userID string, durationSeconds int, day domain.Date) (*domain.PracticeSession, error) {
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}
	now := s.clk.Now()
	if day.IsZero() {
		day = domain.Today(now)
	}
	if day.After(domain.Today(now).AddDays(1)) {
		return nil, fmt.Errorf("%w: date %s is in the future", domain.ErrInvalidInput, day)
	}

	ps := &domain.PracticeSession{
		ID:              uuid.New().String(),
		UserID:          userID,
		DurationSeconds: durationSeconds,
		PracticedOn:     day,
		CreatedAt:       now.UTC(),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		return repository.NewSQLitePracticeSessionRepo(tx).Create(ctx, ps)
	})
	if err != nil {
		return nil, err
	}
	return ps, nil
}

// Stats reports the account totals. Missed days are the days from the
// account's creation through yesterday with no session.
func (s *Service) Stats(ctx context.Context, a *domain.Account) (Stats, error) {
	totals, err := s.sessions.Totals(ctx, a.ID)
	if err != nil {
		return Stats{}, err
	}
	missed, err := s.missedBetween(ctx, a, domain.Today(a.CreatedAt), s.yesterday())
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalDays:    totals.Days,
		MissedDays:   len(missed),
		TotalMinutes: totals.Seconds / 60,
	}
	if totals.Days > 0 {
		st.AvgDuration = float64(totals.Seconds) / 60 / float64(totals.Days)
	}
	return st, nil
}

// Month lists the practiced and missed days of one calendar month.
func (s *Service) Month(ctx context.Context, a *domain.Account, period calendar.Period) (practiced, missed []domain.Date, err error) {
	if err := period.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	first := period.First()
	last := first.AddDays(period.DaysIn() - 1)

	practiced, err = s.sessions.PracticedDays(ctx, a.ID, first, last)
	if err != nil {
		return nil, nil, err
	}

	from := domain.Today(a.CreatedAt)
	if from.Before(first) {
		from = first
	}
	to := s.yesterday()
	if to.After(last) {
		to = last
	}
	missed, err = s.missedBetween(ctx, a, from, to)
	if err != nil {
		return nil, nil, err
	}
	return practiced, missed, nil
}

func (s *Service) yesterday() domain.Date {
	return domain.Today(s.clk.Now()).AddDays(-1)
}

// missedBetween returns the days in [from, to] without a session.
func (s *Service) missedBetween(ctx context.Context, a *domain.Account, from, to domain.Date) ([]domain.Date, error) {
	if to.Before(from) {
		return nil, nil
	}
	days, err := s.sessions.PracticedDays(ctx, a.ID, from, to)
	if err != nil {
		return nil, err
	}
	practiced := domain.NewDateSet(days...)

	var missed []domain.Date
	for d := from; !d.After(to); d = d.AddDays(1) {
		if !practiced.Has(d) {
			missed = append(missed, d)
		}
	}
	return missed, nil
}
