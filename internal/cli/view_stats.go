package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/stats"
)

type statsLoadedMsg struct {
	snap *stats.Snapshot
	err  error
}

// statsView shows the totals and one trailing window at a time.
type statsView struct {
	state   *SharedState
	snap    *stats.Snapshot
	loading bool
	err     error
	window  int
}

func newStatsView(state *SharedState) *statsView {
	return &statsView{state: state, loading: true}
}

func (v *statsView) ID() ViewID    { return ViewStats }
func (v *statsView) Title() string { return "Stats" }

func (v *statsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "window")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "calendar")),
	}
}

func (v *statsView) Init() tea.Cmd {
	return v.load()
}

func (v *statsView) load() tea.Cmd {
	svc := v.state.App.Stats
	ctx := v.state.Context()
	return func() tea.Msg {
		snap, err := svc.Snapshot(ctx)
		return statsLoadedMsg{snap: snap, err: err}
	}
}

func (v *statsView) selected() stats.Window {
	return stats.Windows[v.window]
}

func (v *statsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		v.loading = false
		v.snap, v.err = msg.snap, msg.err
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			v.window = (v.window + len(stats.Windows) - 1) % len(stats.Windows)
		case "right", "l":
			v.window = (v.window + 1) % len(stats.Windows)
		case "1", "2", "3":
			v.window = int(msg.String()[0] - '1')
		case "r":
			v.loading = true
			return v, v.load()
		case "m":
			return v, replaceView(newCalendarView(v.state))
		}
	}
	return v, nil
}

func (v *statsView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case v.loading && v.snap == nil:
		b.WriteString("  " + formatter.Dim("Loading stats…") + "\n")
		return b.String()
	case v.err != nil:
		b.WriteString("  " + formatter.Failure(v.err.Error()) + "\n")
		if errors.Is(v.err, domain.ErrUnauthenticated) {
			b.WriteString("  " + formatter.Dim("Log in from the home screen to see your stats.") + "\n")
		}
		return b.String()
	}

	b.WriteString(formatter.RenderTotals(*v.snap))
	b.WriteString("\n\n")
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")
	w := v.selected()
	b.WriteString(formatter.RenderWindow(w, v.snap.Windows[w]))
	b.WriteString("\n")
	return b.String()
}

func (v *statsView) renderTabs() string {
	tabs := make([]string, len(stats.Windows))
	for i, w := range stats.Windows {
		if i == v.window {
			tabs[i] = formatter.StyleHeader.Render("[" + w.String() + "]")
		} else {
			tabs[i] = formatter.Dim(" " + w.String() + " ")
		}
	}
	return "  " + strings.Join(tabs, " ")
}
