package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable indicates the service could not be reached.
	ErrUnavailable = errors.New("practice service unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("practice service request timed out")

	// ErrRetryExhausted indicates all retry attempts failed.
	ErrRetryExhausted = errors.New("practice service retry attempts exhausted")

	// ErrUnauthorized is matched by APIErrors carrying HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response. Message is the server's "message" field
// when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned status %d", e.Status)
	}
	return fmt.Sprintf("service returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

func (e *APIError) retryable() bool {
	return e.Status >= http.StatusInternalServerError
}
