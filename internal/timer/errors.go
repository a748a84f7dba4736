package timer

import "errors"

var (
	// ErrInvalidConfiguration is returned when a countdown target is not a
	// positive number of seconds or the engine is not in countdown mode.
	ErrInvalidConfiguration = errors.New("invalid timer configuration")

	// ErrNotConfigured is returned when a countdown is started without a
	// target.
	ErrNotConfigured = errors.New("countdown target not configured")
)
