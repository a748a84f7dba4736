package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change client settings",
	}
	cmd.AddCommand(newConfigShowCmd(app), newConfigSetURLCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.Config
			rows := [][]string{
				{"config file", c.Path},
				{"api url", c.APIURL},
				{"database", c.DBPath},
				{"timeout", fmt.Sprintf("%dms", c.TimeoutMs)},
				{"max retries", strconv.Itoa(c.MaxRetries)},
				{"log calls", strconv.FormatBool(c.LogCalls)},
				{"log file", c.LogFile},
				{"countdown default", fmt.Sprintf("%d min", c.Timer.DefaultCountdownMinutes)},
				{"chime", strconv.FormatBool(c.Timer.Chime)},
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"SETTING", "VALUE"}, rows))
			return nil
		},
	}
}

func newConfigSetURLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-url URL",
		Short: "Store the practice service URL in the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Config.Path
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.SetAPIURL(path, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("API URL saved to %s.", path)))
			return nil
		},
	}
}
