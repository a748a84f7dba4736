package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/being/internal/calendar"
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// RenderMonth renders the month grid, Sunday first. Each day is its
// number plus a ● marker when practiced; today is underlined and future
// days are dimmed.
func RenderMonth(period calendar.Period, cells []calendar.Cell) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(period.String()))
	b.WriteString("\n\n")

	head := make([]string, len(weekdayHeader))
	for i, d := range weekdayHeader {
		head[i] = d + " "
	}
	b.WriteString(Dim(strings.TrimRight(strings.Join(head, " "), " ")))
	b.WriteString("\n")

	for _, week := range calendar.Weeks(cells) {
		row := make([]string, len(week))
		for i, c := range week {
			row[i] = renderDayCell(c)
		}
		b.WriteString(strings.TrimRight(strings.Join(row, " "), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func renderDayCell(c calendar.Cell) string {
	if c.Pad {
		return "   "
	}
	num := fmt.Sprintf("%2d", c.Day)
	mark := " "
	style := StyleFg
	switch {
	case c.Practiced:
		style = StyleGreen.Bold(true)
		mark = StyleGreen.Render("●")
	case c.IsFuture:
		style = StyleDim
	}
	if c.IsToday {
		style = style.Underline(true)
	}
	return style.Render(num) + mark
}

// RenderMonthSummary is the footer under the grid.
func RenderMonthSummary(s calendar.Summary) string {
	parts := []string{
		StyleGreen.Render(Pluralize(s.Practiced, "day") + " practiced"),
		StyleYellow.Render(fmt.Sprintf("%d missed", s.Missed)),
	}
	if s.Upcoming > 0 {
		parts = append(parts, Dim(fmt.Sprintf("%d to go", s.Upcoming)))
	}
	return strings.Join(parts, Dim(" · "))
}
