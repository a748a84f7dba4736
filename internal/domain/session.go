package domain

import "time"

// PendingSession is a completed practice session that could not be saved to
// the remote service and is waiting in the local outbox for a retry.
type PendingSession struct {
	ID              string
	DurationSeconds int
	// PracticedOn is the local calendar day the session was recorded on.
	PracticedOn Date
	RecordedAt  time.Time
	Attempts    int
	LastError   string
}

// PracticeSession is a stored practice record on the server side.
type PracticeSession struct {
	ID              string
	UserID          string
	DurationSeconds int
	PracticedOn     Date
	CreatedAt       time.Time
}

// RemoteStats are the aggregate totals reported by GET /sessions/stats.
// TotalDays and MissedDays are defined by the service over its own history
// window and are never recomputed client-side.
type RemoteStats struct {
	TotalDays          int     `json:"totalDays"`
	MissedDays         int     `json:"missedDays"`
	TotalMinutes       int     `json:"totalMinutes"`
	AvgDurationMinutes float64 `json:"avgDuration"`
}

// MonthCalendar is the payload of GET /sessions/{year}/{month}.
type MonthCalendar struct {
	MeditatedDates []string `json:"meditatedDates"`
	MissedDates    []string `json:"missedDates"`
}

// Practiced parses MeditatedDates into a set.
func (c MonthCalendar) Practiced() (DateSet, error) {
	return ParseDateSet(c.MeditatedDates)
}
