package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Username is the stored login's name, or empty when logged out.
	Username string
	// Pending is the number of sessions waiting in the outbox.
	Pending int

	// Terminal dimensions
	Width  int
	Height int

	ctx context.Context
	gen int

	// tick schedules a delayed message. Tests swap it for a no-op and
	// deliver tick messages by hand.
	tick func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

func newSharedState(ctx context.Context, app *App) *SharedState {
	if ctx == nil {
		ctx = context.Background()
	}
	return &SharedState{App: app, ctx: ctx, tick: tea.Tick}
}

// Context is the context for service calls made by views.
func (s *SharedState) Context() context.Context {
	return s.ctx
}

// nextGen returns a fresh generation number. Views tag delayed messages
// with one and drop messages whose tag no longer matches.
func (s *SharedState) nextGen() int {
	s.gen++
	return s.gen
}

// after delivers msg once d has passed.
func (s *SharedState) after(d time.Duration, msg tea.Msg) tea.Cmd {
	return s.tick(d, func(time.Time) tea.Msg { return msg })
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
