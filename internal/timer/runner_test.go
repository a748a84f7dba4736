package timer

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/clock"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) SessionEnded(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) recorded() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

type runResult struct {
	ev  *Event
	err error
}

func startRunner(t *testing.T, ctx context.Context, r *Runner) <-chan runResult {
	t.Helper()
	out := make(chan runResult, 1)
	go func() {
		ev, err := r.Run(ctx)
		out <- runResult{ev: ev, err: err}
	}()
	return out
}

func waitResult(t *testing.T, ch <-chan runResult) runResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not return")
		return runResult{}
	}
}

var runnerEpoch = time.Date(2024, time.February, 15, 6, 30, 0, 0, time.UTC)

func TestRunner_CountdownCompletesWithCatchUp(t *testing.T) {
	clk := clock.NewManual(runnerEpoch)
	sink := &recordingSink{}
	engine := NewEngine(Countdown)
	require.NoError(t, engine.ConfigureTarget(3))

	r := NewRunner(engine, clk, sink)
	done := startRunner(t, context.Background(), r)

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, 1, clk.ActiveTickers())

	// One buffered tick for five elapsed seconds: the runner reads the
	// clock and still lands on the target.
	clk.Advance(5 * time.Second)

	res := waitResult(t, done)
	require.NoError(t, res.err)
	require.NotNil(t, res.ev)
	assert.Equal(t, EventCompleted, res.ev.Kind)
	assert.Equal(t, 3, res.ev.DurationSeconds)
	assert.Equal(t, []Event{*res.ev}, sink.recorded())
	assert.Equal(t, 0, clk.ActiveTickers())
}

func TestRunner_StopPersistsElapsedOnce(t *testing.T) {
	clk := clock.NewManual(runnerEpoch)
	sink := &recordingSink{}
	r := NewRunner(NewEngine(Stopwatch), clk, sink)
	done := startRunner(t, context.Background(), r)
	ctx := context.Background()

	require.NoError(t, r.Start(ctx))
	clk.Advance(37 * time.Second)
	require.NoError(t, r.Stop(ctx))

	res := waitResult(t, done)
	require.NoError(t, res.err)
	require.Len(t, sink.recorded(), 1)
	assert.Equal(t, 37, sink.recorded()[0].DurationSeconds)
	assert.Equal(t, EventStopped, res.ev.Kind)
	assert.Equal(t, 0, clk.ActiveTickers())

	assert.ErrorIs(t, r.Start(ctx), ErrRunnerClosed)
}

func TestRunner_StopWithNothingElapsedCallsNoSink(t *testing.T) {
	clk := clock.NewManual(runnerEpoch)
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(NewEngine(Stopwatch), clk, sink)
	done := startRunner(t, ctx, r)

	require.NoError(t, r.Start(ctx))
	require.NoError(t, r.Stop(ctx))
	assert.Equal(t, 0, clk.ActiveTickers())

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, Idle, snap.Status)

	cancel()
	res := waitResult(t, done)
	assert.ErrorIs(t, res.err, context.Canceled)
	assert.Nil(t, res.ev)
	assert.Empty(t, sink.recorded())
}

func TestRunner_CancelMidSessionStillPersists(t *testing.T) {
	clk := clock.NewManual(runnerEpoch)
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunner(NewEngine(Stopwatch), clk, sink)
	done := startRunner(t, ctx, r)

	require.NoError(t, r.Start(ctx))
	clk.Advance(12 * time.Second)
	cancel()

	res := waitResult(t, done)
	require.NoError(t, res.err)
	require.NotNil(t, res.ev)
	assert.Equal(t, 12, res.ev.DurationSeconds)
	assert.Len(t, sink.recorded(), 1)
	assert.Equal(t, 0, clk.ActiveTickers())
}

func TestRunner_ModeSwitchStopsTicker(t *testing.T) {
	clk := clock.NewManual(runnerEpoch)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine := NewEngine(Countdown)
	require.NoError(t, engine.ConfigureTarget(300))
	r := NewRunner(engine, clk, &recordingSink{})
	startRunner(t, ctx, r)

	require.NoError(t, r.Start(ctx))
	clk.Advance(100 * time.Second)

	require.NoError(t, r.SelectMode(ctx, Stopwatch))
	assert.Equal(t, 0, clk.ActiveTickers())

	clk.Advance(10 * time.Second)
	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{Mode: Stopwatch}, snap.State)
}

func TestRunner_PauseFreezesElapsed(t *testing.T) {
	clk := clock.NewManual(runnerEpoch)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRunner(NewEngine(Stopwatch), clk, &recordingSink{})
	startRunner(t, ctx, r)

	require.NoError(t, r.Start(ctx))
	clk.Advance(4 * time.Second)
	require.NoError(t, r.Pause(ctx))
	clk.Advance(60 * time.Second)

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.ElapsedSeconds)
	assert.Equal(t, Paused, snap.Status)

	require.NoError(t, r.Start(ctx))
	clk.Advance(2 * time.Second)
	require.NoError(t, r.Pause(ctx))
	snap, err = r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, snap.ElapsedSeconds)
}

func TestRunner_StartUnconfiguredCountdown(t *testing.T) {
	clk := clock.NewManual(runnerEpoch)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRunner(NewEngine(Countdown), clk, &recordingSink{})
	startRunner(t, ctx, r)

	assert.ErrorIs(t, r.Start(ctx), ErrNotConfigured)
	assert.Equal(t, 0, clk.ActiveTickers())

	assert.ErrorIs(t, r.ConfigureTarget(ctx, 0), ErrInvalidConfiguration)
	require.NoError(t, r.ConfigureTarget(ctx, 60))
	require.NoError(t, r.Start(ctx))
	assert.Equal(t, 1, clk.ActiveTickers())
}

func TestRunner_SinkErrorReturned(t *testing.T) {
	clk := clock.NewManual(runnerEpoch)
	sinkErr := errors.New("gateway down")
	sink := &recordingSink{err: sinkErr}
	r := NewRunner(NewEngine(Stopwatch), clk, sink)
	done := startRunner(t, context.Background(), r)

	require.NoError(t, r.Start(context.Background()))
	clk.Advance(3 * time.Second)
	require.NoError(t, r.Stop(context.Background()))

	res := waitResult(t, done)
	assert.ErrorIs(t, res.err, sinkErr)
	require.NotNil(t, res.ev)
	assert.Equal(t, 3, res.ev.DurationSeconds)
}

func TestBellChime_RingsThreeTimes(t *testing.T) {
	var buf bytes.Buffer
	NewBellChime(&buf).WithGap(0).Ring()
	assert.Equal(t, "\a\a\a", buf.String())
}
