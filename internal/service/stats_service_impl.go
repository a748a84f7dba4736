package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/being/internal/calendar"
	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/gateway"
	"github.com/alexanderramin/being/internal/stats"
)

type statsService struct {
	api      gateway.API
	tokens   *CredentialTokens
	clk      clock.Clock
	observer UseCaseObserver
}

func NewStatsService(api gateway.API, tokens *CredentialTokens, clk clock.Clock, observers ...UseCaseObserver) StatsService {
	return &statsService{
		api:      api,
		tokens:   tokens,
		clk:      clk,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Snapshot fetches the service totals and every month overlapping the
// longest window, then summarizes all windows against today.
func (s *statsService) Snapshot(ctx context.Context) (snap *stats.Snapshot, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "stats-snapshot", time.Now(), fields, &err)

	today := domain.Today(s.clk.Now())

	remote, err := s.api.Stats(ctx)
	if err != nil {
		return nil, s.tokens.Reject(ctx, err)
	}

	practiced := domain.NewDateSet()
	periods := stats.Periods(today, int(stats.ThreeMonth))
	for _, p := range periods {
		days, err := s.practicedIn(ctx, p)
		if err != nil {
			return nil, err
		}
		practiced.Merge(days)
	}
	fields["months"] = len(periods)
	fields["practiced_days"] = len(practiced)

	perDay := stats.FillPerDay(practiced, remote.AvgDurationMinutes)
	built, err := stats.BuildSnapshot(remote, practiced, perDay, today)
	if err != nil {
		return nil, err
	}
	return &built, nil
}

func (s *statsService) Month(ctx context.Context, period calendar.Period) (view *MonthView, err error) {
	defer observe(ctx, s.observer, "calendar-month", time.Now(), map[string]any{"period": period.String()}, &err)

	if err = period.Validate(); err != nil {
		return nil, err
	}
	practiced, err := s.practicedIn(ctx, period)
	if err != nil {
		return nil, err
	}
	cells, err := calendar.Month(period, practiced, domain.Today(s.clk.Now()))
	if err != nil {
		return nil, err
	}
	return &MonthView{
		Period:  period,
		Cells:   cells,
		Summary: calendar.Summarize(cells),
	}, nil
}

func (s *statsService) practicedIn(ctx context.Context, p calendar.Period) (domain.DateSet, error) {
	cal, err := s.api.Calendar(ctx, p.Year, p.Month)
	if err != nil {
		return nil, s.tokens.Reject(ctx, err)
	}
	days, err := cal.Practiced()
	if err != nil {
		return nil, fmt.Errorf("calendar %s: %w", p, err)
	}
	return days, nil
}
