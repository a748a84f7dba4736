package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/service"
)

// homeLoadedMsg carries the start-up check: the stored login and the
// outcome of replaying the outbox.
type homeLoadedMsg struct {
	username string
	synced   service.SyncResult
	syncErr  error
	pending  int
}

// homeView is the start screen: greeting, outbox status and the menu.
type homeView struct {
	state   *SharedState
	loading bool
	synced  service.SyncResult
	syncErr error
}

func newHomeView(state *SharedState) *homeView {
	return &homeView{state: state, loading: true}
}

func (v *homeView) ID() ViewID    { return ViewHome }
func (v *homeView) Title() string { return "Home" }

func (v *homeView) ShortHelp() []key.Binding {
	login := key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log in"))
	if v.state.Username != "" {
		login = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out"))
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timer")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "check in")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "calendar")),
		login,
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *homeView) Init() tea.Cmd {
	return v.load()
}

// load reads the stored login and, when logged in, replays the outbox.
func (v *homeView) load() tea.Cmd {
	app := v.state.App
	ctx := v.state.Context()
	return func() tea.Msg {
		var msg homeLoadedMsg
		if cred, err := app.Auth.Current(ctx); err == nil {
			msg.username = cred.Username
			msg.synced, msg.syncErr = app.Practice.Sync(ctx)
			if errors.Is(msg.syncErr, domain.ErrUnauthenticated) {
				msg.username = ""
			}
		}
		msg.pending, _ = app.Practice.PendingCount(ctx)
		return msg
	}
}

func (v *homeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		v.loading = false
		v.state.Username = msg.username
		v.state.Pending = msg.pending
		v.synced = msg.synced
		v.syncErr = msg.syncErr
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			return v, pushView(newTimerView(v.state, 0))
		case "s":
			return v, pushView(newStatsView(v.state))
		case "m":
			return v, pushView(newCalendarView(v.state))
		case "c":
			return v, v.startCheckin()
		case "l":
			if v.state.Username == "" {
				return v, v.startLogin()
			}
		case "o":
			if v.state.Username != "" {
				return v, v.logout()
			}
		case "r":
			v.loading = true
			return v, v.load()
		}
	}
	return v, nil
}

func (v *homeView) startCheckin() tea.Cmd {
	in := &checkinInput{}
	app := v.state.App
	ctx := v.state.Context()
	return startWizardCmd(v.state, "Check-in", checkinForm(in), func() tea.Cmd {
		return func() tea.Msg {
			out, err := submitCheckin(ctx, app, *in)
			switch {
			case errors.Is(err, domain.ErrPersistence):
				return cmdOutputMsg{output: formatter.Warn(queuedMessage(err)), refresh: true}
			case err != nil:
				return cmdOutputMsg{output: formatter.Failure(err.Error())}
			}
			return cmdOutputMsg{output: out}
		}
	})
}

func (v *homeView) startLogin() tea.Cmd {
	in := &loginInput{}
	app := v.state.App
	ctx := v.state.Context()
	return startWizardCmd(v.state, "Log in", loginForm(in), func() tea.Cmd {
		return func() tea.Msg {
			user, err := app.Auth.Login(ctx, in.Identifier, in.Password)
			if err != nil {
				return cmdOutputMsg{output: formatter.Failure(err.Error())}
			}
			return cmdOutputMsg{
				output:  formatter.Success(fmt.Sprintf("Logged in as %s.", user.DisplayName())),
				refresh: true,
			}
		}
	})
}

func (v *homeView) logout() tea.Cmd {
	app := v.state.App
	ctx := v.state.Context()
	return func() tea.Msg {
		if err := app.Auth.Logout(ctx); err != nil {
			return cmdOutputMsg{output: formatter.Failure(err.Error())}
		}
		return cmdOutputMsg{output: formatter.Dim("Logged out."), refresh: true}
	}
}

func (v *homeView) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(formatter.Greeting(v.state.Username))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString("  " + formatter.Dim("Checking for queued sessions…") + "\n")
	} else {
		if v.synced.Sent > 0 {
			b.WriteString("  " + formatter.Success(fmt.Sprintf("Synced %s.", formatter.Pluralize(v.synced.Sent, "queued session"))) + "\n")
		}
		if note := formatter.RenderPending(v.state.Pending); note != "" {
			b.WriteString("  " + note + "\n")
		}
		if v.syncErr != nil {
			b.WriteString("  " + formatter.Dim("Sync stopped: "+v.syncErr.Error()) + "\n")
		}
		if v.state.Username == "" {
			b.WriteString("  " + formatter.Dim("Press l to log in. Sessions are queued until you do.") + "\n")
		}
	}

	b.WriteString("\n")
	menu := [][2]string{
		{"t", "Timer"},
		{"c", "Daily check-in"},
		{"s", "Stats"},
		{"m", "Calendar"},
	}
	for _, item := range menu {
		b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.StyleHeader.Render(item[0]), item[1]))
	}
	return b.String()
}
