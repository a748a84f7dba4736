package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/being/internal/cli/formatter"

	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/config"
	"github.com/alexanderramin/being/internal/service"
	"github.com/alexanderramin/being/internal/timer"
)

// App holds the services and settings used by CLI commands and the TUI.
type App struct {
	Auth     service.AuthService
	Practice service.PracticeService
	Stats    service.StatsService

	Config config.Config
	Clock  clock.Source
	Chime  timer.Chime

	// IsInteractive is true when stdin and stdout are terminals. Commands
	// fall back to plain output and refuse to prompt otherwise.
	IsInteractive bool
}

func (a *App) clock() clock.Source {
	if a.Clock == nil {
		return clock.System{}
	}
	return a.Clock
}

func (a *App) chime() timer.Chime {
	if a.Chime == nil || !a.Config.Timer.Chime {
		return timer.NoopChime{}
	}
	return a.Chime
}

// waitSpinner shows a spinner on stderr while a plain command waits on the
// network. It is a no-op outside a terminal.
func (a *App) waitSpinner(cmd *cobra.Command, message string) func() {
	if !a.IsInteractive {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}

// NewRootCmd creates the top-level "being" command and registers all
// subcommands against the provided App. Run without arguments in a
// terminal, it opens the TUI.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "being",
		Short:         "Meditation timer, check-ins and practice stats",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app, nil)
		},
	}

	root.AddCommand(
		newTimerCmd(app),
		newLogCmd(app),
		newCheckinCmd(app),
		newSyncCmd(app),
		newStatsCmd(app),
		newCalendarCmd(app),
		newLoginCmd(app),
		newSignupCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProfileCmd(app),
		newPasswordCmd(app),
		newConfigCmd(app),
		newDevserverCmd(app),
	)

	return root
}
