package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/gateway"
)

var errOffline = fmt.Errorf("%w: dial tcp: connection refused", gateway.ErrUnavailable)

func TestRecordSession_SavesWithLocalDate(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk)

	require.NoError(t, svc.RecordSession(context.Background(), 37))

	require.Len(t, f.api.saved, 1)
	assert.Equal(t, 37, f.api.saved[0].DurationSeconds)
	assert.Equal(t, "2024-02-15", f.api.saved[0].Date.String())

	n, err := svc.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordSession_RejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk)

	assert.ErrorIs(t, svc.RecordSession(context.Background(), 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.RecordSession(context.Background(), -5), domain.ErrInvalidInput)
	assert.Empty(t, f.api.saved)
}

func TestRecordSession_QueuesOnFailure(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.saveErrs = []error{errOffline}
	obs := &recordingObserver{}
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk, obs)
	ctx := context.Background()

	err := svc.RecordSession(ctx, 600)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, gateway.ErrUnavailable)

	queue, err := f.pending.ListOldestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, 600, queue[0].DurationSeconds)
	assert.Equal(t, 1, queue[0].Attempts)
	assert.Equal(t, "2024-02-15", queue[0].PracticedOn.String())
	assert.Contains(t, queue[0].LastError, "connection refused")

	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, OutcomeQueued, obs.events[0].Outcome)
	assert.Equal(t, true, obs.events[0].Fields["queued"])
}

func TestRecordSession_UnauthorizedQueuesAndLogsOut(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.saveErrs = []error{&gateway.APIError{Status: 401, Message: "expired"}}
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk)
	ctx := context.Background()

	err := svc.RecordSession(ctx, 120)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	n, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.creds.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckIn_ConvertsUnits(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk)
	ctx := context.Background()

	secs, err := svc.CheckIn(ctx, 20, domain.UnitMinutes)
	require.NoError(t, err)
	assert.Equal(t, 1200, secs)

	secs, err = svc.CheckIn(ctx, 1, domain.UnitHours)
	require.NoError(t, err)
	assert.Equal(t, 3600, secs)

	_, err = svc.CheckIn(ctx, 0, domain.UnitSeconds)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.Len(t, f.api.saved, 2)
	assert.Equal(t, 1200, f.api.saved[0].DurationSeconds)
	assert.Equal(t, 3600, f.api.saved[1].DurationSeconds)
}

func TestSync_ReplaysOldestFirst(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk)
	ctx := context.Background()

	f.api.saveErrs = []error{errOffline, errOffline}
	require.Error(t, svc.RecordSession(ctx, 300))
	f.clk.Advance(13 * time.Hour)
	require.Error(t, svc.RecordSession(ctx, 400))
	f.clk.Advance(2 * time.Hour)

	res, err := svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Sent: 2}, res)

	require.Len(t, f.api.saved, 2)
	assert.Equal(t, 300, f.api.saved[0].DurationSeconds)
	assert.Equal(t, "2024-02-15", f.api.saved[0].Date.String())
	assert.Equal(t, 400, f.api.saved[1].DurationSeconds)
	assert.Equal(t, "2024-02-15", f.api.saved[1].Date.String(), "replay keeps the recorded day")

	n, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSync_StopsWhenServiceUnavailable(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk)
	ctx := context.Background()

	f.api.saveErrs = []error{errOffline, errOffline, errOffline}
	for _, secs := range []int{60, 70, 80} {
		require.Error(t, svc.RecordSession(ctx, secs))
		f.clk.Advance(time.Minute)
	}

	f.api.saveErrs = []error{nil, errOffline}
	res, err := svc.Sync(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
	assert.Equal(t, SyncResult{Sent: 1, Failed: 1, Remaining: 2}, res)

	queue, err := f.pending.ListOldestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, 70, queue[0].DurationSeconds)
	assert.Equal(t, 2, queue[0].Attempts)
	assert.Equal(t, 1, queue[1].Attempts, "entries after the stop are not attempted")
}

func TestSync_ContinuesPastRejectedEntry(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk)
	ctx := context.Background()

	f.api.saveErrs = []error{errOffline, errOffline}
	require.Error(t, svc.RecordSession(ctx, 60))
	f.clk.Advance(time.Minute)
	require.Error(t, svc.RecordSession(ctx, 90))

	f.api.saveErrs = []error{&gateway.APIError{Status: 422, Message: "bad date"}, nil}
	res, err := svc.Sync(ctx)
	require.Error(t, err)
	assert.Equal(t, SyncResult{Sent: 1, Failed: 1, Remaining: 1}, res)

	queue, err := f.pending.ListOldestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, 60, queue[0].DurationSeconds)
	assert.Contains(t, queue[0].LastError, "bad date")
}

func TestSync_EmptyQueue(t *testing.T) {
	f := newFixture(t)
	svc := NewPracticeService(f.api, f.pending, f.tokens, f.clk)

	res, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, res)
}
