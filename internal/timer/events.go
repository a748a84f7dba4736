package timer

import (
	"fmt"
	"time"
)

// Mode selects how the engine counts.
type Mode int

const (
	Stopwatch Mode = iota
	Countdown
)

func (m Mode) String() string {
	switch m {
	case Stopwatch:
		return "stopwatch"
	case Countdown:
		return "countdown"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Status is the coarse state shown to the user.
type Status int

const (
	Idle Status = iota
	Running
	Paused
	Completed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// EventKind distinguishes how a session ended.
type EventKind int

const (
	EventCompleted EventKind = iota + 1
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventCompleted:
		return "completed"
	case EventStopped:
		return "stopped"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is emitted at most once per session, when a countdown completes or
// the user stops a session with time on it. The owner persists
// DurationSeconds.
type Event struct {
	Kind            EventKind
	Mode            Mode
	DurationSeconds int
}

const (
	CompletedResetWindow = 10 * time.Second
	StoppedResetWindow   = 3 * time.Second
)

// ResetWindow is how long the final reading stays on screen before the
// owner calls Reset.
func ResetWindow(ev Event) time.Duration {
	if ev.Kind == EventCompleted {
		return CompletedResetWindow
	}
	return StoppedResetWindow
}

// Duration returns the event's length as a time.Duration.
func (ev Event) Duration() time.Duration {
	return time.Duration(ev.DurationSeconds) * time.Second
}
