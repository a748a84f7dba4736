package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
)

func newLogCmd(app *App) *cobra.Command {
	var minutes, seconds int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a practice session without running the timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			total := minutes*60 + seconds
			if total <= 0 {
				return fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
			}

			out := cmd.OutOrStdout()
			stop := app.waitSpinner(cmd, "Saving…")
			err := app.Practice.RecordSession(cmd.Context(), total)
			stop()
			if errors.Is(err, domain.ErrPersistence) {
				fmt.Fprintln(out, formatter.Warn(queuedMessage(err)))
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.Success(fmt.Sprintf("Logged %s for today.", formatter.FormatSeconds(total))))
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Session length in minutes")
	cmd.Flags().IntVar(&seconds, "seconds", 0, "Session length in seconds")
	cmd.MarkFlagsOneRequired("minutes", "seconds")
	cmd.MarkFlagsMutuallyExclusive("minutes", "seconds")

	return cmd
}

func newCheckinCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Answer the daily check-in",
		Long: `Answer "Did you meditate today?" and, if so, how long. The answer is
recorded as one session. Use "being log" in scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive {
				return fmt.Errorf("checkin needs a terminal; use `being log --minutes N` instead")
			}
			var in checkinInput
			if err := checkinForm(&in).Run(); err != nil {
				return err
			}
			msg, err := submitCheckin(cmd.Context(), app, in)
			if errors.Is(err, domain.ErrPersistence) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Warn(queuedMessage(err)))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send sessions queued while the server was unreachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := app.waitSpinner(cmd, "Syncing…")
			res, err := app.Practice.Sync(cmd.Context())
			stop()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderSyncResult(res))
			return err
		},
	}
}
