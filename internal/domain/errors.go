package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrDuplicateUser   = errors.New("email or username already exists")
	ErrUnauthenticated = errors.New("not logged in")

	// ErrPersistence indicates a practice session could not be saved to the
	// remote service. The session is kept in the local outbox.
	ErrPersistence = errors.New("session not saved")
)
