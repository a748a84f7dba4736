package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/being/internal/cli/formatter"
	"github.com/alexanderramin/being/internal/domain"
)

// beingHuhTheme returns a huh theme using the formatter palette.
func beingHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(beingHuhTheme()).WithShowHelp(false)
}

// validatePositiveInt requires a positive integer.
func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func required(title string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", title)
		}
		return nil
	}
}

// ── check-in ─────────────────────────────────────────────────────────────────

// checkinInput holds the answers of the daily check-in.
type checkinInput struct {
	Practiced bool
	Amount    string
	Unit      string
}

func checkinForm(in *checkinInput) *huh.Form {
	if in.Unit == "" {
		in.Unit = string(domain.UnitMinutes)
	}
	return newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Did you meditate today?").
				Affirmative("Yes").
				Negative("Not yet").
				Value(&in.Practiced),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("How long?").
				Placeholder("20").
				Value(&in.Amount).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Unit").
				Options(
					huh.NewOption("Minutes", string(domain.UnitMinutes)),
					huh.NewOption("Seconds", string(domain.UnitSeconds)),
					huh.NewOption("Hours", string(domain.UnitHours)),
				).
				Value(&in.Unit),
		).WithHideFunc(func() bool { return !in.Practiced }),
	)
}

// submitCheckin records the check-in and returns the line to show. An
// unanswered "yes" is not an error; it records nothing.
func submitCheckin(ctx context.Context, app *App, in checkinInput) (string, error) {
	if !in.Practiced {
		return formatter.Dim("No session recorded. There is still time today."), nil
	}
	amount, err := strconv.Atoi(strings.TrimSpace(in.Amount))
	if err != nil {
		return "", fmt.Errorf("%w: duration %q is not a number", domain.ErrInvalidInput, in.Amount)
	}
	unit, err := domain.ParseDurationUnit(in.Unit)
	if err != nil {
		return "", err
	}
	seconds, err := app.Practice.CheckIn(ctx, amount, unit)
	if err != nil {
		return "", err
	}
	return formatter.Success(fmt.Sprintf("Checked in %s for today.", formatter.FormatSeconds(seconds))), nil
}

// ── countdown setup ──────────────────────────────────────────────────────────

// countdownInput holds the countdown setup fields. Minutes defaults to
// the configured countdown length.
type countdownInput struct {
	Minutes string
	Seconds string
}

func newCountdownInput(defaultMinutes int) *countdownInput {
	if defaultMinutes <= 0 {
		defaultMinutes = 5
	}
	return &countdownInput{Minutes: strconv.Itoa(defaultMinutes), Seconds: "0"}
}

func countdownForm(in *countdownInput) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minutes").
				Value(&in.Minutes).
				Validate(validateNonNegativeInt),
			huh.NewInput().
				Title("Seconds").
				Value(&in.Seconds).
				Validate(validateNonNegativeInt),
		),
	)
}

// TotalSeconds converts the fields. Empty fields count as zero.
func (in countdownInput) TotalSeconds() (int, error) {
	var total int
	for _, part := range []struct {
		value string
		scale int
	}{{in.Minutes, 60}, {in.Seconds, 1}} {
		v := strings.TrimSpace(part.value)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q is not a non-negative number", domain.ErrInvalidInput, part.value)
		}
		total += n * part.scale
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: countdown must be longer than zero", domain.ErrInvalidInput)
	}
	return total, nil
}

// ── login ────────────────────────────────────────────────────────────────────

type loginInput struct {
	Identifier string
	Password   string
}

func loginForm(in *loginInput) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username or email").
				Value(&in.Identifier).
				Validate(required("Username or email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&in.Password).
				Validate(required("Password")),
		),
	)
}

// promptSecret asks for a hidden value when it was not given as a flag.
func promptSecret(app *App, title string, value *string) error {
	if *value != "" {
		return nil
	}
	if !app.IsInteractive {
		return fmt.Errorf("%w: %s is required when not running in a terminal", domain.ErrInvalidInput, strings.ToLower(title))
	}
	return newForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(value).
				Validate(required(title)),
		),
	).Run()
}
