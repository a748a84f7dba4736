package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// runTUI runs the full-screen interface until the user quits or ctx is
// cancelled. initial, when non-nil, opens a view above home.
func runTUI(ctx context.Context, app *App, initial func(*SharedState) View) error {
	m := newAppModel(ctx, app, initial)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
