package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/timer"
)

func newTimerCmd(app *App) *cobra.Command {
	var countdown time.Duration
	var plain bool

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run the practice timer",
		Long: `Run a stopwatch, or a countdown with --countdown. The finished session
is saved when the countdown completes or when you stop early.

With --plain (or when not attached to a terminal) the timer prints a single
updating line; press Ctrl+C to stop and save.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := countdownSeconds(countdown)
			if err != nil {
				return err
			}
			if plain || !app.IsInteractive {
				return runPlainTimer(cmd.Context(), cmd.OutOrStdout(), app, target)
			}
			return runTUI(cmd.Context(), app, func(s *SharedState) View {
				return newTimerView(s, target)
			})
		},
	}

	cmd.Flags().DurationVar(&countdown, "countdown", 0, "Count down from this duration (e.g. 10m) instead of running a stopwatch")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print one updating line instead of opening the TUI")

	return cmd
}

func countdownSeconds(d time.Duration) (int, error) {
	if d == 0 {
		return 0, nil
	}
	if d < time.Second || d%time.Second != 0 {
		return 0, fmt.Errorf("--countdown %s: want a whole number of seconds: %w", d, timer.ErrInvalidConfiguration)
	}
	return int(d / time.Second), nil
}

type plainRunResult struct {
	ev  *timer.Event
	err error
}

// runPlainTimer drives the engine through the headless runner until the
// countdown completes or ctx is cancelled.
func runPlainTimer(ctx context.Context, out io.Writer, app *App, target int) error {
	mode := timer.Stopwatch
	if target > 0 {
		mode = timer.Countdown
	}
	engine := timer.NewEngine(mode)
	if target > 0 {
		if err := engine.ConfigureTarget(target); err != nil {
			return err
		}
	}

	sink := timer.SinkFunc(func(ctx context.Context, ev timer.Event) error {
		if ev.Kind == timer.EventCompleted {
			app.chime().Ring()
		}
		return app.Practice.RecordSession(ctx, ev.DurationSeconds)
	})
	runner := timer.NewRunner(engine, app.clock(), sink,
		timer.WithTickObserver(func(s timer.Snapshot) {
			fmt.Fprint(out, formatter.PlainTimerLine(s))
		}),
	)

	if mode == timer.Countdown {
		fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Counting down from %s. Ctrl+C stops early and saves.", formatter.FormatClock(target))))
	} else {
		fmt.Fprintln(out, formatter.Dim("Stopwatch running. Ctrl+C stops and saves."))
	}

	done := make(chan plainRunResult, 1)
	go func() {
		ev, err := runner.Run(ctx)
		done <- plainRunResult{ev: ev, err: err}
	}()
	if err := runner.Start(ctx); err != nil && !errors.Is(err, timer.ErrRunnerClosed) && ctx.Err() == nil {
		return err
	}
	res := <-done
	fmt.Fprintln(out)

	if res.ev == nil {
		fmt.Fprintln(out, formatter.Dim("Nothing to save."))
		return nil
	}
	fmt.Fprintln(out, formatter.SessionOutcome(*res.ev))
	return reportSave(out, res.err)
}

// reportSave prints the outcome of a session save. A session that went to
// the outbox is a warning, not a failure.
func reportSave(out io.Writer, err error) error {
	switch {
	case err == nil:
		fmt.Fprintln(out, formatter.Success("Saved."))
		return nil
	case errors.Is(err, domain.ErrPersistence):
		fmt.Fprintln(out, formatter.Warn(queuedMessage(err)))
		return nil
	default:
		return err
	}
}

// queuedMessage explains why a session went to the outbox.
func queuedMessage(err error) string {
	if errors.Is(err, domain.ErrUnauthenticated) {
		return "Not logged in. Session queued; log in and run `being sync`."
	}
	return "Server unreachable. Session queued; it will sync later."
}
