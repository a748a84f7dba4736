package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/being/internal/stats"
)

// RenderTotals renders the all-time totals box.
func RenderTotals(snap stats.Snapshot) string {
	rows := [][2]string{
		{"Days practiced", strconv.Itoa(snap.TotalDays)},
		{"Days missed", strconv.Itoa(snap.MissedDays)},
		{"Total time", FormatMinutes(snap.TotalMinutes)},
		{"Average session", FormatMinutes(snap.AvgDurationMinutes)},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", Dim(fmt.Sprintf("%-16s", r[0])), Bold(r[1])))
	}
	return RenderBox("Practice", strings.Join(lines, "\n"))
}

// RenderWindow renders one trailing window: its label, a sparkline of
// daily minutes and a one-line summary.
func RenderWindow(w stats.Window, s stats.Summary) string {
	values := make([]int, len(s.Series))
	for i, p := range s.Series {
		values[i] = p.Minutes
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render(w.Label()))
	b.WriteString("\n")
	b.WriteString(Sparkline(values, s.Max()))
	b.WriteString("\n")
	b.WriteString(windowFooter(s))
	return b.String()
}

func windowFooter(s stats.Summary) string {
	if s.PracticedDays == 0 {
		return Dim("No practice in this window.")
	}
	return fmt.Sprintf("%s over %s · avg %s",
		FormatMinutes(s.TotalMinutes),
		Pluralize(s.PracticedDays, "day"),
		FormatMinutes(stats.RoundMinutes(s.AvgDurationMinutes)))
}

// RenderWindowTable compares all windows side by side.
func RenderWindowTable(snap stats.Snapshot) string {
	rows := make([][]string, 0, len(stats.Windows))
	for _, w := range stats.Windows {
		s := snap.Windows[w]
		rows = append(rows, []string{
			w.Label(),
			fmt.Sprintf("%d/%d", s.PracticedDays, s.WindowDays),
			FormatMinutes(s.TotalMinutes),
			FormatMinutes(stats.RoundMinutes(s.AvgDurationMinutes)),
		})
	}
	return RenderTable([]string{"WINDOW", "DAYS", "TOTAL", "AVG"}, rows, AlignRight(1, 2, 3))
}
