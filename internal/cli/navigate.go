package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// replaceViewMsg replaces the current top view with a new one.
type replaceViewMsg struct {
	view View
}

// refreshViewMsg asks every view on the stack to reload its data.
type refreshViewMsg struct{}

// cmdOutputMsg carries a line of output to show under the active view
// until the next key press. With refresh set, the views reload as well.
type cmdOutputMsg struct {
	output  string
	refresh bool
}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// replaceView returns a tea.Cmd that replaces the top view.
func replaceView(v View) tea.Cmd {
	return func() tea.Msg { return replaceViewMsg{view: v} }
}

// showOutput returns a tea.Cmd that displays output under the active view.
func showOutput(output string) tea.Cmd {
	return func() tea.Msg { return cmdOutputMsg{output: output} }
}

// wizardCompleteOutput closes the wizard and shows output.
func wizardCompleteOutput(output string) wizardCompleteMsg {
	return wizardCompleteMsg{nextCmd: showOutput(output)}
}
