// Package calendar lays out one month of practice history as a grid of
// day cells.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/being/internal/domain"
)

// ErrInvalidPeriod is returned for a month outside 1..12.
var ErrInvalidPeriod = errors.New("invalid calendar period")

// Cell is one slot of the month grid. Pad cells precede the first day so
// that day 1 lands under its weekday column; they have Day 0 and no flags.
// The flags are independent: a day can be practiced and today, or
// practiced and in the future.
type Cell struct {
	Day       int
	Date      domain.Date
	Pad       bool
	Practiced bool
	IsToday   bool
	IsFuture  bool
}

// Period identifies a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month containing d.
func PeriodOf(d domain.Date) Period {
	return Period{Year: d.Year, Month: d.Month}
}

func (p Period) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("month %d: %w", int(p.Month), ErrInvalidPeriod)
	}
	return nil
}

// Next returns the following month.
func (p Period) Next() Period {
	return p.shift(1)
}

// Prev returns the preceding month.
func (p Period) Prev() Period {
	return p.shift(-1)
}

func (p Period) shift(n int) Period {
	t := time.Date(p.Year, p.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: t.Year(), Month: t.Month()}
}

// First returns day 1 of the month.
func (p Period) First() domain.Date {
	return domain.Date{Year: p.Year, Month: p.Month, Day: 1}
}

// DaysIn returns the number of days in the month.
func (p Period) DaysIn() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether d falls in the month.
func (p Period) Contains(d domain.Date) bool {
	return d.Year == p.Year && d.Month == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// Month builds the cells for period: one pad cell per weekday before the
// 1st (Sunday first), then one cell per day.
func Month(period Period, practiced domain.DateSet, today domain.Date) ([]Cell, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	first := period.First()
	offset := int(first.Weekday())
	days := period.DaysIn()

	cells := make([]Cell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{Pad: true})
	}
	for day := 1; day <= days; day++ {
		d := domain.Date{Year: period.Year, Month: period.Month, Day: day}
		cells = append(cells, Cell{
			Day:       day,
			Date:      d,
			Practiced: practiced.Has(d),
			IsToday:   d == today,
			IsFuture:  d.After(today),
		})
	}
	return cells, nil
}

// Weeks splits cells into rows of seven. The last row may be short.
func Weeks(cells []Cell) [][]Cell {
	var rows [][]Cell
	for start := 0; start < len(cells); start += 7 {
		end := start + 7
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, cells[start:end])
	}
	return rows
}

// Summary counts the month's practiced days and the days already past
// without practice. It is for display only; the service's missed-day total
// is authoritative.
type Summary struct {
	Practiced int
	Missed    int
	Upcoming  int
}

// Summarize tallies a month's cells. Today counts as missed only once it
// has passed, so an unpracticed today is neither missed nor upcoming.
func Summarize(cells []Cell) Summary {
	var s Summary
	for _, c := range cells {
		switch {
		case c.Pad:
		case c.Practiced:
			s.Practiced++
		case c.IsFuture:
			s.Upcoming++
		case !c.IsToday:
			s.Missed++
		}
	}
	return s
}
