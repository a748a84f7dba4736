package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/being/internal/auth"
	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/gateway"
	"github.com/alexanderramin/being/internal/repository"
)

// CredentialTokens reads the bearer token from the local credential store.
// It is the gateway's TokenSource and is shared with the auth service.
type CredentialTokens struct {
	creds repository.CredentialRepo
	clk   clock.Clock
}

func NewCredentialTokens(creds repository.CredentialRepo, clk clock.Clock) *CredentialTokens {
	return &CredentialTokens{creds: creds, clk: clk}
}

// Current returns the stored credential. An expired token is cleared and
// reported as domain.ErrUnauthenticated.
func (t *CredentialTokens) Current(ctx context.Context) (*domain.Credential, error) {
	cred, err := t.creds.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if auth.Expired(cred.Token, t.clk.Now()) {
		if err := t.creds.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthenticated)
	}
	return cred, nil
}

// Reject clears the stored credential when err is a 401 from the service
// and returns err wrapped with domain.ErrUnauthenticated. Other errors pass
// through.
func (t *CredentialTokens) Reject(ctx context.Context, err error) error {
	if err == nil || !errors.Is(err, gateway.ErrUnauthorized) {
		return err
	}
	_ = t.creds.Clear(context.WithoutCancel(ctx))
	return fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
}

func (t *CredentialTokens) Token(ctx context.Context) (string, error) {
	cred, err := t.Current(ctx)
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

type authService struct {
	api      gateway.API
	creds    repository.CredentialRepo
	tokens   *CredentialTokens
	observer UseCaseObserver
}

func NewAuthService(api gateway.API, tokens *CredentialTokens, observers ...UseCaseObserver) AuthService {
	return &authService{
		api:      api,
		creds:    tokens.creds,
		tokens:   tokens,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (user *domain.User, err error) {
	defer observe(ctx, s.observer, "signup", time.Now(), map[string]any{"username": req.Username}, &err)

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email, username and password are required", domain.ErrInvalidInput)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: %q is not an email address", domain.ErrInvalidInput, req.Email)
	}

	if err = s.api.Signup(ctx, gateway.SignupInput{Email: req.Email, Username: req.Username, Password: req.Password}); err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	return s.login(ctx, req.Username, req.Password)
}

func (s *authService) Login(ctx context.Context, identifier, password string) (user *domain.User, err error) {
	defer observe(ctx, s.observer, "login", time.Now(), map[string]any{"identifier": identifier}, &err)

	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	return s.login(ctx, strings.TrimSpace(identifier), password)
}

func (s *authService) login(ctx context.Context, identifier, password string) (*domain.User, error) {
	token, err := s.api.Login(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return nil, fmt.Errorf("invalid username or password: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("logging in: %w", err)
	}

	cred := &domain.Credential{Token: token, Username: identifier}
	if err := s.creds.Save(ctx, cred); err != nil {
		return nil, err
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	cred.Username = user.Username
	cred.Email = user.Email
	if err := s.creds.Save(ctx, cred); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context) (err error) {
	defer observe(ctx, s.observer, "logout", time.Now(), nil, &err)
	return s.creds.Clear(ctx)
}

func (s *authService) Current(ctx context.Context) (*domain.Credential, error) {
	return s.tokens.Current(ctx)
}

func (s *authService) Token(ctx context.Context) (string, error) {
	return s.tokens.Token(ctx)
}

func (s *authService) Profile(ctx context.Context) (user *domain.User, err error) {
	defer observe(ctx, s.observer, "profile", time.Now(), nil, &err)

	user, err = s.api.Me(ctx)
	if err != nil {
		return nil, s.handleAuthError(ctx, err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (user *domain.User, err error) {
	defer observe(ctx, s.observer, "update-profile", time.Now(), nil, &err)

	if upd.Age != nil && *upd.Age < 0 {
		return nil, fmt.Errorf("%w: age must be non-negative", domain.ErrInvalidInput)
	}
	if upd.Email != nil && !strings.Contains(*upd.Email, "@") {
		return nil, fmt.Errorf("%w: %q is not an email address", domain.ErrInvalidInput, *upd.Email)
	}
	if err = s.api.UpdateProfile(ctx, upd); err != nil {
		return nil, s.handleAuthError(ctx, err)
	}

	user, err = s.api.Me(ctx)
	if err != nil {
		return nil, s.handleAuthError(ctx, err)
	}
	if cred, credErr := s.creds.Get(ctx); credErr == nil && cred.Email != user.Email {
		cred.Email = user.Email
		_ = s.creds.Save(ctx, cred)
	}
	return user, nil
}

func (s *authService) ResetPassword(ctx context.Context, oldPassword, newPassword string) (err error) {
	defer observe(ctx, s.observer, "reset-password", time.Now(), nil, &err)

	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: current and new password are required", domain.ErrInvalidInput)
	}
	if err = s.api.ResetPassword(ctx, oldPassword, newPassword); err != nil {
		return s.handleAuthError(ctx, err)
	}
	return nil
}

func (s *authService) handleAuthError(ctx context.Context, err error) error {
	return s.tokens.Reject(ctx, err)
}
