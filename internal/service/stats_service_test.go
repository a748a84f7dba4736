package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/calendar"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/gateway"
	"github.com/alexanderramin/being/internal/stats"
)

func TestSnapshot_FetchesEveryMonthOfLongestWindow(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.stats = domain.RemoteStats{TotalDays: 3, MissedDays: 40, TotalMinutes: 53, AvgDurationMinutes: 17.6}
	f.api.calendars["2024-02"] = domain.MonthCalendar{MeditatedDates: []string{"2024-02-14", "2024-02-12"}}
	f.api.calendars["2024-01"] = domain.MonthCalendar{MeditatedDates: []string{"2024-01-20"}}
	svc := NewStatsService(f.api, f.tokens, f.clk)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, f.api.calendarCalls)
	assert.Equal(t, 3, snap.TotalDays)
	assert.Equal(t, 40, snap.MissedDays, "missed days are passed through untouched")
	assert.Equal(t, 53, snap.TotalMinutes)
	assert.Equal(t, 18, snap.AvgDurationMinutes)

	week := snap.Windows[stats.Weekly]
	assert.Len(t, week.Series, 7)
	assert.Equal(t, 34, week.TotalMinutes)
	assert.Equal(t, 2, week.PracticedDays)
	assert.InDelta(t, 17.0, week.AvgDurationMinutes, 0.001)

	quarter := snap.Windows[stats.ThreeMonth]
	assert.Len(t, quarter.Series, 90)
	assert.Equal(t, 51, quarter.TotalMinutes)
	assert.Equal(t, 3, quarter.PracticedDays)
}

func TestSnapshot_StatsFailure(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.statsErr = gateway.ErrTimeout
	svc := NewStatsService(f.api, f.tokens, f.clk)

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, gateway.ErrTimeout)
	assert.Empty(t, f.api.calendarCalls)
}

func TestSnapshot_MalformedCalendarDate(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.calendars["2024-02"] = domain.MonthCalendar{MeditatedDates: []string{"Feb 14"}}
	svc := NewStatsService(f.api, f.tokens, f.clk)

	_, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "February 2024")
}

func TestMonth_BuildsGridForPeriod(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.calendars["2024-02"] = domain.MonthCalendar{
		MeditatedDates: []string{"2024-02-01", "2024-02-29"},
		MissedDates:    []string{"2024-02-02"},
	}
	obs := &recordingObserver{}
	svc := NewStatsService(f.api, f.tokens, f.clk, obs)

	view, err := svc.Month(context.Background(), calendar.Period{Year: 2024, Month: time.February})
	require.NoError(t, err)

	var days []calendar.Cell
	for _, c := range view.Cells {
		if !c.Pad {
			days = append(days, c)
		}
	}
	require.Len(t, days, 29)
	assert.Len(t, view.Cells, 33, "February 2024 starts on a Thursday")
	assert.True(t, days[0].Practiced)
	assert.True(t, days[28].Practiced)
	assert.True(t, days[28].IsFuture)
	assert.True(t, days[14].IsToday)
	assert.Equal(t, 2, view.Summary.Practiced)
	assert.Equal(t, []string{"calendar-month"}, obs.names())
}

func TestMonth_InvalidPeriod(t *testing.T) {
	f := newFixture(t)
	svc := NewStatsService(f.api, f.tokens, f.clk)

	_, err := svc.Month(context.Background(), calendar.Period{Year: 2024, Month: 13})
	assert.ErrorIs(t, err, calendar.ErrInvalidPeriod)
	assert.Empty(t, f.api.calendarCalls)
}
