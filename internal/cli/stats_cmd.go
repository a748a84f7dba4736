package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/being/internal/calendar"
	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/stats"
)

// windowFlag is a pflag.Value accepting week, month or quarter.
type windowFlag struct {
	window stats.Window
	set    bool
}

var _ pflag.Value = (*windowFlag)(nil)

func (f *windowFlag) String() string {
	if !f.set {
		return ""
	}
	return f.window.String()
}

func (f *windowFlag) Set(s string) error {
	w, err := stats.ParseWindow(s)
	if err != nil {
		return err
	}
	f.window = w
	f.set = true
	return nil
}

func (f *windowFlag) Type() string { return "window" }

func newStatsCmd(app *App) *cobra.Command {
	var window windowFlag

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice totals and trailing windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := app.waitSpinner(cmd, "Loading stats…")
			snap, err := app.Stats.Snapshot(cmd.Context())
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.RenderTotals(*snap))
			fmt.Fprintln(out)
			if window.set {
				fmt.Fprintln(out, formatter.RenderWindow(window.window, snap.Windows[window.window]))
				return nil
			}
			fmt.Fprint(out, formatter.RenderWindowTable(*snap))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.RenderWindow(stats.Weekly, snap.Windows[stats.Weekly]))
			return nil
		},
	}

	cmd.Flags().Var(&window, "window", "Show one window: week, month or quarter")

	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the practice calendar for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period := calendar.PeriodOf(domain.Today(app.clock().Now()))
			if cmd.Flags().Changed("year") {
				period.Year = year
			}
			if cmd.Flags().Changed("month") {
				period.Month = time.Month(month)
			}

			stop := app.waitSpinner(cmd, "Loading calendar…")
			view, err := app.Stats.Month(cmd.Context(), period)
			stop()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.RenderMonth(view.Period, view.Cells))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.RenderMonthSummary(view.Summary))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: this year)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: this month)")

	return cmd
}
