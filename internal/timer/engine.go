// Package timer implements the practice timer: a stopwatch or countdown
// state machine that reports exactly one event per session, plus a headless
// runner that drives it from a clock.
package timer

// StopwatchFullScale is the elapsed time at which the stopwatch progress bar
// reads full.
const StopwatchFullScale = 3600

// State is the observable timer state.
type State struct {
	Mode           Mode
	ElapsedSeconds int
	TargetSeconds  int
	Running        bool
	Completed      bool
}

// Snapshot is a copy of the engine state plus derived values for display.
type Snapshot struct {
	State
	Status       Status
	Progress     float64
	PendingReset bool
}

// Engine is the timer state machine. It has no notion of wall time; the
// owner calls Tick or Advance once per elapsed second. Engine is not safe
// for concurrent use.
type Engine struct {
	state State

	// emitted is set once the session has produced its event.
	emitted bool
	// settled marks a stopped session waiting for Reset.
	settled bool
}

// NewEngine returns an idle engine in the given mode.
func NewEngine(mode Mode) *Engine {
	e := &Engine{}
	e.SelectMode(mode)
	return e
}

// SelectMode switches mode and clears all state, including a pending reset.
func (e *Engine) SelectMode(mode Mode) {
	e.state = State{Mode: mode}
	e.emitted = false
	e.settled = false
}

// ConfigureTarget sets the countdown target and rewinds elapsed time. It
// does not start the timer.
func (e *Engine) ConfigureTarget(seconds int) error {
	if e.state.Mode != Countdown || seconds <= 0 {
		return ErrInvalidConfiguration
	}
	e.state = State{Mode: Countdown, TargetSeconds: seconds}
	e.emitted = false
	e.settled = false
	return nil
}

// Start begins or resumes counting. A completed or stopped session stays
// put until Reset.
func (e *Engine) Start() error {
	if e.state.Mode == Countdown && e.state.TargetSeconds == 0 {
		return ErrNotConfigured
	}
	if e.state.Completed || e.settled {
		return nil
	}
	e.state.Running = true
	return nil
}

// Pause stops counting without ending the session.
func (e *Engine) Pause() {
	e.state.Running = false
}

// Tick advances the timer by one second.
func (e *Engine) Tick() *Event {
	return e.Advance(1)
}

// Advance adds n seconds of running time. A countdown whose elapsed time
// reaches the target completes, clamps elapsed to the target and returns
// its completion event. Calls while not running return nil.
func (e *Engine) Advance(n int) *Event {
	if !e.state.Running || n <= 0 {
		return nil
	}
	e.state.ElapsedSeconds += n

	if e.state.Mode != Countdown || e.state.ElapsedSeconds < e.state.TargetSeconds {
		return nil
	}
	e.state.ElapsedSeconds = e.state.TargetSeconds
	e.state.Running = false
	e.state.Completed = true
	if e.emitted {
		return nil
	}
	e.emitted = true
	return &Event{
		Kind:            EventCompleted,
		Mode:            Countdown,
		DurationSeconds: e.state.TargetSeconds,
	}
}

// Stop ends the session. With time on the clock and no event yet it returns
// a Stopped event and leaves the final reading in place until Reset.
// Otherwise it resets immediately and returns nil.
func (e *Engine) Stop() *Event {
	if e.state.ElapsedSeconds > 0 && !e.emitted {
		e.state.Running = false
		e.emitted = true
		e.settled = true
		return &Event{
			Kind:            EventStopped,
			Mode:            e.state.Mode,
			DurationSeconds: e.state.ElapsedSeconds,
		}
	}
	e.Reset()
	return nil
}

// Reset returns to idle, keeping the mode. A configured countdown target is
// cleared too; the user sets it again for the next session.
func (e *Engine) Reset() {
	e.SelectMode(e.state.Mode)
}

// State returns a copy of the raw state.
func (e *Engine) State() State {
	return e.state
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	return e.state.Mode
}

// PendingReset reports whether the session has ended and awaits Reset.
func (e *Engine) PendingReset() bool {
	return e.state.Completed || e.settled
}

// Status summarizes the state for display.
func (e *Engine) Status() Status {
	switch {
	case e.state.Completed:
		return Completed
	case e.state.Running:
		return Running
	case e.state.ElapsedSeconds > 0:
		return Paused
	default:
		return Idle
	}
}

// ProgressFraction is the bar fill in [0, 1]. The stopwatch fills over an
// hour; a countdown fills toward its target.
func (e *Engine) ProgressFraction() float64 {
	var f float64
	switch e.state.Mode {
	case Countdown:
		if e.state.TargetSeconds == 0 {
			return 0
		}
		f = float64(e.state.ElapsedSeconds) / float64(e.state.TargetSeconds)
	default:
		f = float64(e.state.ElapsedSeconds) / StopwatchFullScale
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// RemainingSeconds is the countdown time left, or elapsed time for the
// stopwatch.
func (e *Engine) RemainingSeconds() int {
	if e.state.Mode == Countdown {
		if r := e.state.TargetSeconds - e.state.ElapsedSeconds; r > 0 {
			return r
		}
		return 0
	}
	return e.state.ElapsedSeconds
}

// Snapshot copies the state along with status, progress and the pending
// reset flag.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:        e.state,
		Status:       e.Status(),
		Progress:     e.ProgressFraction(),
		PendingReset: e.PendingReset(),
	}
}
