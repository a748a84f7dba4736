package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/gateway"
)

// Outcome classifies how a service call ended.
type Outcome string

const (
	OutcomeOK Outcome = "ok"
	// OutcomeQueued means the session went to the local outbox.
	OutcomeQueued    Outcome = "queued"
	OutcomeLoggedOut Outcome = "logged_out"
	OutcomeOffline   Outcome = "offline"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// outcomeOf maps a call's error onto an Outcome. A queued session is
// checked first since its error also wraps the cause.
func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrPersistence):
		return OutcomeQueued
	case errors.Is(err, domain.ErrUnauthenticated):
		return OutcomeLoggedOut
	case errors.Is(err, gateway.ErrUnavailable), errors.Is(err, gateway.ErrTimeout), errors.Is(err, gateway.ErrRetryExhausted):
		return OutcomeOffline
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrDuplicateUser):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Outcome   Outcome
	Err       error
	Fields    map[string]any
}

// UseCaseObserver receives an event after every service call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes one slog text record per call to w. Queued
// sessions and logged-out calls log at warn, other failures at error.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("call", event.Name),
		slog.String("outcome", string(event.Outcome)),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
	}
	for k, v := range event.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}

	level := slog.LevelInfo
	switch event.Outcome {
	case OutcomeOK:
	case OutcomeQueued, OutcomeLoggedOut, OutcomeOffline:
		level = slog.LevelWarn
	default:
		level = slog.LevelError
	}
	o.logger.LogAttrs(ctx, level, "being_call", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe reports a finished call. Defer it with a pointer to the named
// error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Outcome:   outcomeOf(err),
		Err:       err,
		Fields:    fields,
	})
}
