package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/gateway"
	"github.com/alexanderramin/being/internal/repository"
)

type practiceService struct {
	api      gateway.API
	pending  repository.PendingSessionRepo
	tokens   *CredentialTokens
	clk      clock.Clock
	observer UseCaseObserver
}

func NewPracticeService(api gateway.API, pending repository.PendingSessionRepo, tokens *CredentialTokens, clk clock.Clock, observers ...UseCaseObserver) PracticeService {
	return &practiceService{
		api:      api,
		pending:  pending,
		tokens:   tokens,
		clk:      clk,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *practiceService) RecordSession(ctx context.Context, durationSeconds int) (err error) {
	fields := map[string]any{"duration_s": durationSeconds}
	defer observe(ctx, s.observer, "record-session", time.Now(), fields, &err)

	if durationSeconds <= 0 {
		return fmt.Errorf("%w: session duration must be positive, got %d", domain.ErrInvalidInput, durationSeconds)
	}

	now := s.clk.Now()
	day := domain.Today(now)
	saveErr := s.api.SaveSession(ctx, gateway.SessionInput{DurationSeconds: durationSeconds, Date: day})
	if saveErr == nil {
		return nil
	}
	if errors.Is(saveErr, domain.ErrInvalidInput) {
		return saveErr
	}
	saveErr = s.tokens.Reject(ctx, saveErr)

	p := &domain.PendingSession{
		ID:              uuid.New().String(),
		DurationSeconds: durationSeconds,
		PracticedOn:     day,
		RecordedAt:      now,
		Attempts:        1,
		LastError:       saveErr.Error(),
	}
	// The engine has already moved on; queue on a context that outlives a
	// cancelled caller.
	if qErr := s.pending.Enqueue(context.WithoutCancel(ctx), p); qErr != nil {
		return fmt.Errorf("%w: %w (not queued: %v)", domain.ErrPersistence, saveErr, qErr)
	}
	fields["queued"] = true
	return fmt.Errorf("%w: %w", domain.ErrPersistence, saveErr)
}

func (s *practiceService) CheckIn(ctx context.Context, amount int, unit domain.DurationUnit) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}
	seconds := unit.ToSeconds(amount)
	return seconds, s.RecordSession(ctx, seconds)
}

func (s *practiceService) Sync(ctx context.Context) (result SyncResult, err error) {
	fields := map[string]any{}
	defer func() {
		fields["sent"] = result.Sent
		fields["failed"] = result.Failed
		fields["remaining"] = result.Remaining
	}()
	defer observe(ctx, s.observer, "sync-outbox", time.Now(), fields, &err)

	queue, err := s.pending.ListOldestFirst(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	var lastErr error
	for i, p := range queue {
		sendErr := s.api.SaveSession(ctx, gateway.SessionInput{DurationSeconds: p.DurationSeconds, Date: p.PracticedOn})
		if sendErr == nil {
			if err := s.pending.Delete(ctx, p.ID); err != nil {
				return result, err
			}
			result.Sent++
			continue
		}

		result.Failed++
		sendErr = s.tokens.Reject(ctx, sendErr)
		lastErr = sendErr
		if err := s.pending.RecordFailure(ctx, p.ID, sendErr.Error()); err != nil {
			return result, err
		}
		if stopsReplay(sendErr) {
			result.Remaining = len(queue) - i
			return result, sendErr
		}
		result.Remaining++
	}
	if lastErr != nil {
		return result, lastErr
	}
	return result, nil
}

// stopsReplay reports errors that will fail every remaining entry too.
func stopsReplay(err error) bool {
	return errors.Is(err, gateway.ErrUnavailable) ||
		errors.Is(err, gateway.ErrTimeout) ||
		errors.Is(err, domain.ErrUnauthenticated) ||
		errors.Is(err, context.Canceled)
}

func (s *practiceService) PendingCount(ctx context.Context) (int, error) {
	return s.pending.Count(ctx)
}
