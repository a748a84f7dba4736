// Package stats turns practiced days and per-day minutes into the dense
// trailing-window series and aggregates shown on the stats screen.
package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/being/internal/calendar"
	"github.com/alexanderramin/being/internal/domain"
)

// ErrInvalidWindow is returned for a window of zero or fewer days.
var ErrInvalidWindow = errors.New("invalid stats window")

// Window is a trailing span of days ending today.
type Window int

const (
	Weekly     Window = 7
	Monthly    Window = 30
	ThreeMonth Window = 90
)

// Windows lists the windows shown on the stats screen, shortest first.
var Windows = []Window{Weekly, Monthly, ThreeMonth}

func (w Window) String() string {
	switch w {
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	case ThreeMonth:
		return "quarter"
	default:
		return fmt.Sprintf("%dd", int(w))
	}
}

// Label is the heading used for the window's chart.
func (w Window) Label() string {
	switch w {
	case Weekly:
		return "Last 7 days"
	case Monthly:
		return "Last 30 days"
	case ThreeMonth:
		return "Last 3 months"
	default:
		return fmt.Sprintf("Last %d days", int(w))
	}
}

// ParseWindow accepts week, month or quarter.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "7":
		return Weekly, nil
	case "month", "30":
		return Monthly, nil
	case "quarter", "90":
		return ThreeMonth, nil
	}
	return 0, fmt.Errorf("window %q (want week, month or quarter): %w", s, ErrInvalidWindow)
}

// Point is one day of a series.
type Point struct {
	Date    domain.Date
	Minutes int
}

// Summary is one window's series and aggregates.
type Summary struct {
	WindowDays int
	// Series has exactly WindowDays entries, oldest first, ending today.
	Series []Point
	// TotalMinutes sums minutes on practiced days in the window.
	TotalMinutes int
	// PracticedDays counts practiced days in the window with minutes.
	PracticedDays int
	// AvgDurationMinutes is TotalMinutes / PracticedDays, or 0.
	AvgDurationMinutes float64
}

// Summarize builds the series for the windowDays days ending at today.
// Minutes count for a day only when the day is in practiced; entries in
// perDayMinutes for other days are ignored.
func Summarize(practiced domain.DateSet, perDayMinutes map[domain.Date]int, windowDays int, today domain.Date) (Summary, error) {
	if windowDays <= 0 {
		return Summary{}, fmt.Errorf("window of %d days: %w", windowDays, ErrInvalidWindow)
	}

	s := Summary{
		WindowDays: windowDays,
		Series:     make([]Point, windowDays),
	}
	start := today.AddDays(-(windowDays - 1))
	for i := 0; i < windowDays; i++ {
		d := start.AddDays(i)
		minutes := 0
		if practiced.Has(d) {
			minutes = perDayMinutes[d]
		}
		s.Series[i] = Point{Date: d, Minutes: minutes}
		if minutes > 0 {
			s.TotalMinutes += minutes
			s.PracticedDays++
		}
	}
	if s.PracticedDays > 0 {
		s.AvgDurationMinutes = float64(s.TotalMinutes) / float64(s.PracticedDays)
	}
	return s, nil
}

// Max returns the largest per-day value in the series.
func (s Summary) Max() int {
	m := 0
	for _, p := range s.Series {
		if p.Minutes > m {
			m = p.Minutes
		}
	}
	return m
}

// Snapshot is everything the stats screen shows. TotalDays, MissedDays and
// TotalMinutes come from the service as-is.
type Snapshot struct {
	TotalDays          int
	MissedDays         int
	TotalMinutes       int
	AvgDurationMinutes int
	Windows            map[Window]Summary
}

// BuildSnapshot assembles the three trailing windows and the service
// totals. The average is the service's, rounded half-up to whole minutes.
func BuildSnapshot(remote domain.RemoteStats, practiced domain.DateSet, perDayMinutes map[domain.Date]int, today domain.Date) (Snapshot, error) {
	snap := Snapshot{
		TotalDays:          remote.TotalDays,
		MissedDays:         remote.MissedDays,
		TotalMinutes:       remote.TotalMinutes,
		AvgDurationMinutes: RoundMinutes(remote.AvgDurationMinutes),
		Windows:            make(map[Window]Summary, len(Windows)),
	}
	for _, w := range Windows {
		s, err := Summarize(practiced, perDayMinutes, int(w), today)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Windows[w] = s
	}
	return snap, nil
}

// RoundMinutes rounds half-up.
func RoundMinutes(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FillPerDay assigns each practiced day the whole-minute floor of the
// service average. The service reports practiced dates but not per-day
// durations.
func FillPerDay(practiced domain.DateSet, avgMinutes float64) map[domain.Date]int {
	per := int(math.Floor(avgMinutes))
	if per < 0 {
		per = 0
	}
	out := make(map[domain.Date]int, len(practiced))
	for d := range practiced {
		out[d] = per
	}
	return out
}

// Periods lists the calendar months overlapping the windowDays days ending
// at today, oldest first.
func Periods(today domain.Date, windowDays int) []calendar.Period {
	if windowDays <= 0 {
		return nil
	}
	first := calendar.PeriodOf(today.AddDays(-(windowDays - 1)))
	last := calendar.PeriodOf(today)
	var out []calendar.Period
	for p := first; ; p = p.Next() {
		out = append(out, p)
		if p == last {
			break
		}
	}
	return out
}
