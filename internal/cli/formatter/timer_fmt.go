package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/being/internal/timer"
)

// FormatClock renders seconds as MM:SS, or H:MM:SS from an hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ClockSeconds is the number the timer face shows: time left on a
// countdown, time elapsed on the stopwatch.
func ClockSeconds(snap timer.Snapshot) int {
	if snap.Mode == timer.Countdown {
		return max(snap.TargetSeconds-snap.ElapsedSeconds, 0)
	}
	return snap.ElapsedSeconds
}

// ModeTabs renders the two modes with the active one highlighted.
func ModeTabs(active timer.Mode) string {
	tab := func(m timer.Mode, label string) string {
		if m == active {
			return StyleHeader.Render("[" + label + "]")
		}
		return Dim(" " + label + " ")
	}
	return tab(timer.Stopwatch, "Stopwatch") + "  " + tab(timer.Countdown, "Countdown")
}

// TimerStatus renders the status pill under the clock.
func TimerStatus(snap timer.Snapshot) string {
	switch {
	case snap.Completed:
		return StyleGreen.Render("✔ Complete")
	case snap.PendingReset:
		return StyleBlue.Render("■ Stopped")
	case snap.Status == timer.Running:
		return StyleGreen.Render("● Running")
	case snap.Status == timer.Paused:
		return StyleYellow.Render("❚❚ Paused")
	case snap.Mode == timer.Countdown && snap.TargetSeconds == 0:
		return Dim("○ Not set")
	default:
		return Dim("○ Ready")
	}
}

// SessionOutcome describes a finished session for the timer view and the
// plain runner.
func SessionOutcome(ev timer.Event) string {
	switch ev.Kind {
	case timer.EventCompleted:
		return "Session complete · " + FormatSeconds(ev.DurationSeconds)
	default:
		return "Session stopped · " + FormatSeconds(ev.DurationSeconds)
	}
}

// BigClock renders the clock reading letter-spaced for the timer view.
func BigClock(seconds int) string {
	text := FormatClock(seconds)
	spaced := strings.Join(strings.Split(text, ""), " ")
	return StyleBold.Render(spaced)
}

// PlainTimerLine is one carriage-return-updated line for `being timer
// --plain`.
func PlainTimerLine(snap timer.Snapshot) string {
	bar := RenderCompactBar(snap.Progress, 20, true)
	if snap.Mode == timer.Countdown {
		bar = RenderProgress(snap.Progress, 20)
	}
	return fmt.Sprintf("\r  %s  %s  %s", FormatClock(ClockSeconds(snap)), bar, snap.Status)
}
