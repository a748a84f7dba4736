package timer

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/being/internal/clock"
)

// ErrRunnerClosed is returned by Runner commands after Run has returned.
var ErrRunnerClosed = errors.New("timer runner closed")

// Sink receives the event that ends a session.
type Sink interface {
	SessionEnded(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) SessionEnded(ctx context.Context, ev Event) error { return f(ctx, ev) }

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTickInterval overrides the one-second tick.
func WithTickInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.interval = d }
}

// WithTickObserver registers a callback invoked on the runner goroutine
// after every tick that advanced the timer.
func WithTickObserver(fn func(Snapshot)) RunnerOption {
	return func(r *Runner) { r.onTick = fn }
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdPause
	cmdStop
	cmdSelectMode
	cmdConfigure
	cmdSnapshot
)

type command struct {
	kind    commandKind
	mode    Mode
	seconds int
	reply   chan commandReply
}

type commandReply struct {
	snap Snapshot
	err  error
}

// Runner drives an Engine from a clock without a UI. All engine access
// happens on the goroutine that calls Run; other goroutines talk to it
// through the command methods.
type Runner struct {
	engine   *Engine
	src      clock.Source
	sink     Sink
	interval time.Duration
	onTick   func(Snapshot)

	cmds chan command
	done chan struct{}

	ticker clock.Ticker
	anchor time.Time
	base   int
}

// NewRunner returns a Runner for engine. Call Run to start it.
func NewRunner(engine *Engine, src clock.Source, sink Sink, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:   engine,
		src:      src,
		sink:     sink,
		interval: time.Second,
		cmds:     make(chan command),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes ticks and commands until the session ends. It returns the
// session's event, or nil when the context is cancelled with nothing on
// the clock. Cancelling a session in progress stops it, so the elapsed time
// still reaches the sink. The error is the sink's error or ctx.Err().
func (r *Runner) Run(ctx context.Context) (*Event, error) {
	defer close(r.done)
	defer r.stopTicker()

	for {
		select {
		case <-ctx.Done():
			if ev := r.catchUp(); ev != nil {
				return r.finish(context.WithoutCancel(ctx), ev)
			}
			r.stopTicker()
			if ev := r.engine.Stop(); ev != nil {
				return r.finish(context.WithoutCancel(ctx), ev)
			}
			return nil, ctx.Err()

		case <-r.tickC():
			if ev := r.catchUp(); ev != nil {
				return r.finish(ctx, ev)
			}
			if r.onTick != nil {
				r.onTick(r.engine.Snapshot())
			}

		case cmd := <-r.cmds:
			ev, err := r.apply(cmd)
			cmd.reply <- commandReply{snap: r.engine.Snapshot(), err: err}
			if ev != nil {
				return r.finish(ctx, ev)
			}
		}
	}
}

func (r *Runner) apply(cmd command) (*Event, error) {
	switch cmd.kind {
	case cmdStart:
		if err := r.engine.Start(); err != nil {
			return nil, err
		}
		if r.engine.State().Running && r.ticker == nil {
			r.ticker = r.src.NewTicker(r.interval)
			r.anchor = r.src.Now()
			r.base = r.engine.State().ElapsedSeconds
		}
	case cmdPause:
		if ev := r.catchUp(); ev != nil {
			return ev, nil
		}
		r.stopTicker()
		r.engine.Pause()
	case cmdStop:
		if ev := r.catchUp(); ev != nil {
			return ev, nil
		}
		r.stopTicker()
		return r.engine.Stop(), nil
	case cmdSelectMode:
		r.stopTicker()
		r.engine.SelectMode(cmd.mode)
	case cmdConfigure:
		r.stopTicker()
		return nil, r.engine.ConfigureTarget(cmd.seconds)
	case cmdSnapshot:
	}
	return nil, nil
}

// catchUp advances the engine to the whole seconds elapsed on the clock
// since the current run segment began, so late or dropped ticks are not
// lost.
func (r *Runner) catchUp() *Event {
	if r.ticker == nil {
		return nil
	}
	want := r.base + int(r.src.Now().Sub(r.anchor)/time.Second)
	delta := want - r.engine.State().ElapsedSeconds
	if delta <= 0 {
		return nil
	}
	return r.engine.Advance(delta)
}

func (r *Runner) finish(ctx context.Context, ev *Event) (*Event, error) {
	r.stopTicker()
	err := r.sink.SessionEnded(ctx, *ev)
	r.engine.Reset()
	return ev, err
}

func (r *Runner) tickC() <-chan time.Time {
	if r.ticker == nil {
		return nil
	}
	return r.ticker.C()
}

func (r *Runner) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

// Start starts or resumes the engine.
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.send(ctx, command{kind: cmdStart})
	return err
}

// Pause pauses the engine and releases the ticker.
func (r *Runner) Pause(ctx context.Context) error {
	_, err := r.send(ctx, command{kind: cmdPause})
	return err
}

// Stop ends the session; Run returns once the sink has the event.
func (r *Runner) Stop(ctx context.Context) error {
	_, err := r.send(ctx, command{kind: cmdStop})
	return err
}

// SelectMode switches mode, discarding the current session.
func (r *Runner) SelectMode(ctx context.Context, mode Mode) error {
	_, err := r.send(ctx, command{kind: cmdSelectMode, mode: mode})
	return err
}

// ConfigureTarget sets the countdown length.
func (r *Runner) ConfigureTarget(ctx context.Context, seconds int) error {
	_, err := r.send(ctx, command{kind: cmdConfigure, seconds: seconds})
	return err
}

// Snapshot returns the engine state as seen by the runner goroutine.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, error) {
	rep, err := r.send(ctx, command{kind: cmdSnapshot})
	return rep.snap, err
}

func (r *Runner) send(ctx context.Context, cmd command) (commandReply, error) {
	cmd.reply = make(chan commandReply, 1)
	select {
	case r.cmds <- cmd:
	case <-r.done:
		return commandReply{}, ErrRunnerClosed
	case <-ctx.Done():
		return commandReply{}, ctx.Err()
	}
	rep := <-cmd.reply
	return rep, rep.err
}
