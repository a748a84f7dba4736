package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/being/internal/teatest"
)

// scheduled is one delayed message a view asked for.
type scheduled struct {
	after time.Duration
	msg   tea.Msg
}

// TestDriver wraps teatest.Driver with access to the appModel internals
// the generic driver can't see. Delayed messages (timer ticks, the reset
// after a session) are captured instead of waiting on real time; Fire
// delivers them.
type TestDriver struct {
	*teatest.Driver
	pending []scheduled
}

// NewTestDriver builds the appModel for app, sets the terminal size and
// drains Init, which runs the home view's start-up check against the test
// server.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	return newTestDriverWith(t, app, nil)
}

func newTestDriverWith(t *testing.T, app *App, initial func(*SharedState) View) *TestDriver {
	t.Helper()
	td := &TestDriver{}
	m := newAppModel(context.Background(), app, initial)
	m.state.tick = func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		td.pending = append(td.pending, scheduled{after: d, msg: fn(time.Time{})})
		return nil
	}
	td.Driver = teatest.New(t, m, teatest.WithSize(100, 40))
	td.DrainInit()
	return td
}

// Fire delivers every captured delayed message, oldest first. Messages
// scheduled while firing wait for the next call.
func (d *TestDriver) Fire() {
	d.T.Helper()
	due := d.pending
	d.pending = nil
	for _, s := range due {
		d.Send(s.msg)
	}
}

// Seconds fires n rounds of captured messages, one per simulated second
// of running time.
func (d *TestDriver) Seconds(n int) {
	d.T.Helper()
	for range n {
		d.Fire()
	}
}

// Pending returns the captured delayed messages not yet delivered.
func (d *TestDriver) Pending() []scheduled {
	return d.pending
}

func (d *TestDriver) appModel() *appModel {
	m := d.Model.(appModel)
	return &m
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting reports whether the app asked to quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the transient output line.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

// Timer returns the timer view when it is on top of the stack.
func (d *TestDriver) Timer() *timerView {
	d.T.Helper()
	v, ok := d.appModel().activeView().(*timerView)
	if !ok {
		d.T.Fatalf("active view is %d, not the timer", d.ActiveViewID())
	}
	return v
}
