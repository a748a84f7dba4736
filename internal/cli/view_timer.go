package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/timer"
)

// timerTickMsg is one second of running time. It only counts while gen
// matches the view's current generation.
type timerTickMsg struct {
	gen int
}

// timerResetMsg ends the display window after a session.
type timerResetMsg struct {
	gen int
}

// sessionSavedMsg reports the save of a finished session.
type sessionSavedMsg struct {
	ev  timer.Event
	err error
}

// countdownSetMsg carries the countdown setup result.
type countdownSetMsg struct {
	seconds int
	err     error
}

// timerView runs the practice timer. Ticks are tea.Tick commands tagged
// with a generation; pausing, stopping, switching mode and closing the
// view all move to a new generation so a tick already in flight is
// dropped.
type timerView struct {
	state  *SharedState
	engine *timer.Engine

	gen      int
	resetGen int

	bar    progress.Model
	spin   spinner.Model
	saving bool
	last   *timer.Event
	notice string
}

// newTimerView opens the timer as a stopwatch, or as a configured
// countdown when target is positive.
func newTimerView(state *SharedState, target int) *timerView {
	mode := timer.Stopwatch
	if target > 0 {
		mode = timer.Countdown
	}
	engine := timer.NewEngine(mode)
	if target > 0 {
		_ = engine.ConfigureTarget(target)
	}
	return &timerView{
		state:  state,
		engine: engine,
		bar: progress.New(
			progress.WithSolidFill(string(formatter.ColorGreen)),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
		spin: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (v *timerView) ID() ViewID    { return ViewTimer }
func (v *timerView) Title() string { return "Timer" }

func (v *timerView) ShortHelp() []key.Binding {
	start := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start"))
	if v.engine.State().Running {
		start = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause"))
	}
	hints := []key.Binding{
		start,
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch mode")),
	}
	if v.engine.Mode() == timer.Countdown {
		hints = append(hints, key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "set time")))
	}
	return hints
}

func (v *timerView) Init() tea.Cmd {
	return nil
}

// Close drops pending ticks and resets when the view leaves the stack.
func (v *timerView) Close() {
	v.gen = v.state.nextGen()
	v.resetGen = v.state.nextGen()
}

func (v *timerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if msg.gen != v.gen || !v.engine.State().Running {
			return v, nil
		}
		if ev := v.engine.Tick(); ev != nil {
			return v, v.finish(*ev)
		}
		return v, v.scheduleTick()

	case timerResetMsg:
		if msg.gen == v.resetGen && v.engine.PendingReset() {
			v.engine.Reset()
			v.last = nil
		}
		return v, nil

	case sessionSavedMsg:
		v.saving = false
		v.notice = v.saveNotice(msg)
		return v, nil

	case countdownSetMsg:
		v.applyCountdown(msg)
		return v, nil

	case spinner.TickMsg:
		if !v.saving {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *timerView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case " ", "enter":
		return v.toggle()
	case "x":
		return v.stop()
	case "tab":
		v.switchMode()
		return nil
	case "e":
		if v.engine.Mode() == timer.Countdown && !v.engine.State().Running {
			return v.openSetup()
		}
	}
	return nil
}

// toggle starts or pauses. Starting an unconfigured countdown opens the
// setup form instead.
func (v *timerView) toggle() tea.Cmd {
	if v.engine.State().Running {
		v.engine.Pause()
		v.gen = v.state.nextGen()
		return nil
	}
	if v.engine.PendingReset() {
		return nil
	}
	if err := v.engine.Start(); err != nil {
		if errors.Is(err, timer.ErrNotConfigured) {
			return v.openSetup()
		}
		v.notice = formatter.Failure(err.Error())
		return nil
	}
	v.notice = ""
	v.gen = v.state.nextGen()
	return v.scheduleTick()
}

// stop ends the session. With time on the clock the session is saved;
// during the display window it skips straight to the reset.
func (v *timerView) stop() tea.Cmd {
	v.gen = v.state.nextGen()
	if ev := v.engine.Stop(); ev != nil {
		return v.finish(*ev)
	}
	v.last = nil
	return nil
}

func (v *timerView) switchMode() {
	next := timer.Countdown
	if v.engine.Mode() == timer.Countdown {
		next = timer.Stopwatch
	}
	v.engine.SelectMode(next)
	v.gen = v.state.nextGen()
	v.resetGen = v.state.nextGen()
	v.last = nil
	v.notice = ""
}

func (v *timerView) scheduleTick() tea.Cmd {
	return v.state.after(time.Second, timerTickMsg{gen: v.gen})
}

// finish issues the single save for ev and schedules the reset. The save
// runs on its own; the reset does not wait for it.
func (v *timerView) finish(ev timer.Event) tea.Cmd {
	v.gen = v.state.nextGen()
	v.resetGen = v.state.nextGen()
	v.last = &ev
	v.saving = true
	v.notice = ""

	cmds := []tea.Cmd{
		v.save(ev),
		v.spin.Tick,
		v.state.after(timer.ResetWindow(ev), timerResetMsg{gen: v.resetGen}),
	}
	if ev.Kind == timer.EventCompleted {
		chime := v.state.App.chime()
		cmds = append(cmds, func() tea.Msg {
			chime.Ring()
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (v *timerView) save(ev timer.Event) tea.Cmd {
	practice := v.state.App.Practice
	ctx := v.state.Context()
	return func() tea.Msg {
		return sessionSavedMsg{ev: ev, err: practice.RecordSession(ctx, ev.DurationSeconds)}
	}
}

func (v *timerView) saveNotice(msg sessionSavedMsg) string {
	switch {
	case msg.err == nil:
		return formatter.Success(fmt.Sprintf("Saved %s.", formatter.FormatSeconds(msg.ev.DurationSeconds)))
	case errors.Is(msg.err, domain.ErrPersistence):
		v.state.Pending++
		return formatter.Warn(queuedMessage(msg.err))
	default:
		return formatter.Failure(msg.err.Error())
	}
}

func (v *timerView) openSetup() tea.Cmd {
	in := newCountdownInput(v.state.App.Config.Timer.DefaultCountdownMinutes)
	return startWizardCmd(v.state, "Countdown", countdownForm(in), func() tea.Cmd {
		secs, err := in.TotalSeconds()
		return func() tea.Msg { return countdownSetMsg{seconds: secs, err: err} }
	})
}

func (v *timerView) applyCountdown(msg countdownSetMsg) {
	if msg.err != nil {
		v.notice = formatter.Failure(msg.err.Error())
		return
	}
	if v.engine.Mode() != timer.Countdown || v.engine.PendingReset() {
		v.engine.SelectMode(timer.Countdown)
		v.gen = v.state.nextGen()
		v.resetGen = v.state.nextGen()
		v.last = nil
	}
	if err := v.engine.ConfigureTarget(msg.seconds); err != nil {
		v.notice = formatter.Failure(err.Error())
		return
	}
	v.notice = formatter.Dim(fmt.Sprintf("Countdown set to %s. Press space to start.", formatter.FormatClock(msg.seconds)))
}

func (v *timerView) View() string {
	snap := v.engine.Snapshot()

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(formatter.ModeTabs(snap.Mode))
	b.WriteString("\n\n      ")
	b.WriteString(formatter.BigClock(formatter.ClockSeconds(snap)))
	if snap.Mode == timer.Countdown && snap.TargetSeconds > 0 {
		b.WriteString("  " + formatter.Dim("of "+formatter.FormatClock(snap.TargetSeconds)))
	}
	b.WriteString("\n\n  ")
	b.WriteString(v.bar.ViewAs(snap.Progress))
	b.WriteString("\n  ")
	b.WriteString(formatter.TimerStatus(snap))
	b.WriteString("\n")

	if v.last != nil {
		b.WriteString("\n  " + formatter.SessionOutcome(*v.last) + "\n")
	}
	if v.saving {
		b.WriteString("  " + v.spin.View() + " " + formatter.Dim("Saving…") + "\n")
	} else if v.notice != "" {
		b.WriteString("  " + v.notice + "\n")
	}
	return b.String()
}
