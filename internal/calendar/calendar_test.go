package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/domain"
)

func feb(day int) domain.Date {
	return domain.NewDate(2024, time.February, day)
}

func dayCells(cells []Cell) []Cell {
	var out []Cell
	for _, c := range cells {
		if !c.Pad {
			out = append(out, c)
		}
	}
	return out
}

func TestMonth_LeapFebruary(t *testing.T) {
	practiced := domain.NewDateSet(feb(1), feb(29))

	cells, err := Month(Period{Year: 2024, Month: time.February}, practiced, feb(15))
	require.NoError(t, err)

	// 2024-02-01 is a Thursday.
	require.Len(t, cells, 4+29)
	for i := 0; i < 4; i++ {
		assert.Equal(t, Cell{Pad: true}, cells[i])
	}

	days := dayCells(cells)
	require.Len(t, days, 29)

	for _, c := range days {
		assert.Equal(t, c.Day == 1 || c.Day == 29, c.Practiced, "day %d practiced", c.Day)
		assert.Equal(t, c.Day >= 16, c.IsFuture, "day %d future", c.Day)
		assert.Equal(t, c.Day == 15, c.IsToday, "day %d today", c.Day)
	}

	last := days[28]
	assert.True(t, last.Practiced && last.IsFuture, "day 29 is both practiced and future")
}

func TestMonth_PracticedToday(t *testing.T) {
	cells, err := Month(Period{Year: 2024, Month: time.February}, domain.NewDateSet(feb(15)), feb(15))
	require.NoError(t, err)

	c := dayCells(cells)[14]
	assert.True(t, c.IsToday)
	assert.True(t, c.Practiced)
	assert.False(t, c.IsFuture)
}

func TestMonth_IgnoresDatesOutsideMonth(t *testing.T) {
	practiced := domain.NewDateSet(domain.NewDate(2024, time.March, 1))
	cells, err := Month(Period{Year: 2024, Month: time.February}, practiced, feb(15))
	require.NoError(t, err)

	for _, c := range cells {
		assert.False(t, c.Practiced)
	}
}

func TestMonth_Lengths(t *testing.T) {
	tests := []struct {
		period Period
		offset int
		days   int
	}{
		{Period{2023, time.February}, 3, 28},
		{Period{2024, time.September}, 0, 30},
		{Period{2024, time.December}, 0, 31},
		{Period{2025, time.March}, 6, 31},
	}
	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			cells, err := Month(tt.period, nil, feb(1))
			require.NoError(t, err)
			assert.Len(t, cells, tt.offset+tt.days)
			assert.Len(t, dayCells(cells), tt.days)
		})
	}
}

func TestMonth_InvalidPeriod(t *testing.T) {
	for _, m := range []time.Month{0, 13} {
		_, err := Month(Period{Year: 2024, Month: m}, nil, feb(1))
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	}
}

func TestPeriod_Navigation(t *testing.T) {
	p := Period{Year: 2024, Month: time.January}
	assert.Equal(t, Period{2023, time.December}, p.Prev())
	assert.Equal(t, Period{2024, time.February}, p.Next())
	assert.Equal(t, Period{2025, time.January}, Period{2024, time.December}.Next())
	assert.Equal(t, "January 2024", p.String())
	assert.True(t, p.Contains(domain.NewDate(2024, time.January, 31)))
	assert.False(t, p.Contains(feb(1)))
}

func TestWeeks(t *testing.T) {
	cells, err := Month(Period{Year: 2024, Month: time.February}, nil, feb(1))
	require.NoError(t, err)

	rows := Weeks(cells)
	require.Len(t, rows, 5)
	for _, row := range rows[:4] {
		assert.Len(t, row, 7)
	}
	assert.Len(t, rows[4], 5)
	assert.Equal(t, 29, rows[4][4].Day)
}

func TestSummarize(t *testing.T) {
	practiced := domain.NewDateSet(feb(1), feb(2), feb(29))
	cells, err := Month(Period{Year: 2024, Month: time.February}, practiced, feb(15))
	require.NoError(t, err)

	s := Summarize(cells)
	assert.Equal(t, 3, s.Practiced)
	assert.Equal(t, 12, s.Missed, "days 3..14")
	assert.Equal(t, 13, s.Upcoming, "days 16..28")
}
