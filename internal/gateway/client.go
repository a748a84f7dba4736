// Package gateway is the HTTP client for the practice service: account
// endpoints, session logging, and the statistics read side.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/being/internal/domain"
)

// Config holds the transport settings.
type Config struct {
	BaseURL    string
	TimeoutMs  int
	MaxRetries int
}

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SignupInput is the body of POST /users/signup.
type SignupInput struct {
	Email    string
	Username string
	Password string
}

// SessionInput describes one practice session to log.
type SessionInput struct {
	DurationSeconds int
	// Date is the client-local day; zero lets the server pick. It is sent
	// as an extra "date" field for outbox replay. The hosted service only
	// documents {duration} and may ignore it.
	Date domain.Date
}

// API is the practice service as seen by the client.
type API interface {
	Signup(ctx context.Context, in SignupInput) error
	Login(ctx context.Context, identifier, password string) (string, error)
	Me(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error
	ResetPassword(ctx context.Context, oldPassword, newPassword string) error
	SaveSession(ctx context.Context, in SessionInput) error
	Stats(ctx context.Context) (domain.RemoteStats, error)
	Calendar(ctx context.Context, year int, month time.Month) (domain.MonthCalendar, error)
}

// httpClient implements API over JSON/HTTP.
type httpClient struct {
	cfg      Config
	http     *http.Client
	tokens   TokenSource
	observer Observer
}

// NewHTTPClient creates an API client. tokens may be nil when only the
// unauthenticated endpoints are used.
func NewHTTPClient(cfg Config, tokens TokenSource, observer Observer) API {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 10000
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		tokens:   tokens,
		observer: observer,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Age      *int   `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

type profileRequest struct {
	Name   *string `json:"name,omitempty"`
	Age    *int    `json:"age,omitempty"`
	Gender *string `json:"gender,omitempty"`
	Email  *string `json:"email,omitempty"`
}

type resetPasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type sessionRequest struct {
	Duration int    `json:"duration"`
	Date     string `json:"date,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type call struct {
	endpoint string
	method   string
	path     string
	body     any
	auth     bool
	out      any
	// once marks a write that is not safe to repeat. It gets a single
	// attempt; a lost response is left to the caller's outbox.
	once bool
}

func (c *httpClient) Signup(ctx context.Context, in SignupInput) error {
	return c.do(ctx, call{
		endpoint: "signup",
		method:   http.MethodPost,
		path:     "/users/signup",
		body:     signupRequest{Email: in.Email, Username: in.Username, Password: in.Password},
	})
}

func (c *httpClient) Login(ctx context.Context, identifier, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, call{
		endpoint: "login",
		method:   http.MethodPost,
		path:     "/users/login",
		body:     loginRequest{Identifier: identifier, Password: password},
		out:      &resp,
	})
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return resp.Token, nil
}

func (c *httpClient) Me(ctx context.Context) (*domain.User, error) {
	var resp userResponse
	err := c.do(ctx, call{endpoint: "me", method: http.MethodGet, path: "/users/me", auth: true, out: &resp})
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:       resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
		Name:     resp.Name,
		Age:      resp.Age,
		Gender:   resp.Gender,
	}, nil
}

func (c *httpClient) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error {
	return c.do(ctx, call{
		endpoint: "update_profile",
		method:   http.MethodPut,
		path:     "/users/me",
		body:     profileRequest{Name: upd.Name, Age: upd.Age, Gender: upd.Gender, Email: upd.Email},
		auth:     true,
	})
}

func (c *httpClient) ResetPassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.do(ctx, call{
		endpoint: "reset_password",
		method:   http.MethodPost,
		path:     "/users/resetpassword",
		body:     resetPasswordRequest{OldPassword: oldPassword, NewPassword: newPassword},
		auth:     true,
	})
}

func (c *httpClient) SaveSession(ctx context.Context, in SessionInput) error {
	if in.DurationSeconds <= 0 {
		return fmt.Errorf("session duration %d: %w", in.DurationSeconds, domain.ErrInvalidInput)
	}
	req := sessionRequest{Duration: in.DurationSeconds}
	if !in.Date.IsZero() {
		req.Date = in.Date.String()
	}
	return c.do(ctx, call{endpoint: "save_session", method: http.MethodPost, path: "/sessions", body: req, auth: true, once: true})
}

func (c *httpClient) Stats(ctx context.Context) (domain.RemoteStats, error) {
	var resp domain.RemoteStats
	err := c.do(ctx, call{endpoint: "stats", method: http.MethodGet, path: "/sessions/stats", auth: true, out: &resp})
	return resp, err
}

func (c *httpClient) Calendar(ctx context.Context, year int, month time.Month) (domain.MonthCalendar, error) {
	var resp domain.MonthCalendar
	err := c.do(ctx, call{
		endpoint: "calendar",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/sessions/%d/%d", year, int(month)),
		auth:     true,
		out:      &resp,
	})
	return resp, err
}

func (c *httpClient) do(ctx context.Context, cl call) error {
	start := time.Now()

	var payload []byte
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	var token string
	if cl.auth {
		if c.tokens == nil {
			return domain.ErrUnauthenticated
		}
		t, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		token = t
	}

	var (
		lastErr    error
		lastStatus int
		attempt    int
	)
	attempts := 1 + c.cfg.MaxRetries
	if cl.once {
		attempts = 1
	}
	for attempt = 1; attempt <= attempts; attempt++ {
		status, err := c.doRequest(ctx, cl, payload, token)
		lastStatus = status
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Endpoint:  cl.endpoint,
				Status:    status,
				Attempts:  attempt,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if attempt > attempts {
		attempt = attempts
	}

	finalErr := c.classify(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Endpoint:  cl.endpoint,
		Status:    lastStatus,
		Attempts:  attempt,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(finalErr),
	})
	return finalErr
}

func (c *httpClient) classify(ctx context.Context, err error) error {
	var apiErr *APIError
	switch {
	case ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.As(err, &apiErr) && !apiErr.retryable():
		return apiErr
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	}
}

// doRequest performs one attempt under its own timeout and returns the
// HTTP status it saw, if any.
func (c *httpClient) doRequest(ctx context.Context, cl call, payload []byte, token string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.cfg.BaseURL+cl.path, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(respBody, &er) == nil {
			apiErr.Message = er.Message
		}
		return resp.StatusCode, apiErr
	}

	if cl.out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, cl.out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("HTTP_%d", apiErr.Status)
	default:
		return "UNKNOWN"
	}
}
