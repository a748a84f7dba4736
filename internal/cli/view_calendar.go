package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/being/internal/calendar"
	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/service"
)

type monthLoadedMsg struct {
	period calendar.Period
	view   *service.MonthView
	err    error
}

// calendarView shows one month of practice and pages between months.
type calendarView struct {
	state   *SharedState
	period  calendar.Period
	month   *service.MonthView
	loading bool
	err     error
}

func newCalendarView(state *SharedState) *calendarView {
	return &calendarView{
		state:   state,
		period:  calendar.PeriodOf(domain.Today(state.App.clock().Now())),
		loading: true,
	}
}

func (v *calendarView) ID() ViewID    { return ViewCalendar }
func (v *calendarView) Title() string { return "Calendar" }

func (v *calendarView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev month")),
		key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next month")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
	}
}

func (v *calendarView) Init() tea.Cmd {
	return v.load()
}

func (v *calendarView) load() tea.Cmd {
	svc := v.state.App.Stats
	ctx := v.state.Context()
	period := v.period
	return func() tea.Msg {
		view, err := svc.Month(ctx, period)
		return monthLoadedMsg{period: period, view: view, err: err}
	}
}

func (v *calendarView) show(p calendar.Period) tea.Cmd {
	v.period = p
	v.loading = true
	return v.load()
}

func (v *calendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case monthLoadedMsg:
		// A slow response for a month we already left is dropped.
		if msg.period != v.period {
			return v, nil
		}
		v.loading = false
		v.month, v.err = msg.view, msg.err
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "p":
			return v, v.show(v.period.Prev())
		case "right", "l", "n":
			return v, v.show(v.period.Next())
		case "t":
			return v, v.show(calendar.PeriodOf(domain.Today(v.state.App.clock().Now())))
		case "r":
			return v, v.load()
		case "s":
			return v, replaceView(newStatsView(v.state))
		}
	}
	return v, nil
}

func (v *calendarView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString("  " + formatter.Failure(v.err.Error()) + "\n")
	case v.month == nil || v.month.Period != v.period:
		b.WriteString("  " + formatter.StyleHeader.Render(v.period.String()) + "\n\n")
		b.WriteString("  " + formatter.Dim("Loading…") + "\n")
	default:
		for _, line := range strings.Split(strings.TrimRight(formatter.RenderMonth(v.month.Period, v.month.Cells), "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n  " + formatter.RenderMonthSummary(v.month.Summary) + "\n")
	}
	return b.String()
}
