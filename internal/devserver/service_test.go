package devserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/auth"
	"github.com/alexanderramin/being/internal/calendar"
	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/repository"
	"github.com/alexanderramin/being/internal/testutil"
)

const testSecret = "test-secret-for-devserver-tests"

// newTestService returns a Service on an in-memory database with a manual
// clock at 2024-02-10 09:00 local time.
func newTestService(t *testing.T) (*Service, *clock.Manual) {
	t.Helper()
	database := testutil.NewServerTestDB(t)
	clk := clock.NewManual(time.Date(2024, time.February, 10, 9, 0, 0, 0, time.Local))
	issuer := auth.NewIssuer(testSecret, time.Hour).WithClock(clk.Now)
	svc := NewService(
		repository.NewSQLiteUserRepo(database),
		repository.NewSQLitePracticeSessionRepo(database),
		testutil.NewTestUoW(database),
		issuer,
		clk,
		4,
	)
	return svc, clk
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Signup(ctx, "Alice@Example.com", "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "alice@example.com", a.Email)

	for _, identifier := range []string{"alice", "alice@example.com", "ALICE@example.com"} {
		token, err := svc.Login(ctx, identifier, "secret1")
		require.NoError(t, err, identifier)

		got, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
	}

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name, email, username, password string
	}{
		{"missing email", "", "bob", "secret1"},
		{"bad email", "bob", "bob", "secret1"},
		{"username with at", "bob@example.com", "bob@home", "secret1"},
		{"short password", "bob@example.com", "bob", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.email, tc.username, tc.password)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSignup_Duplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@example.com", "alice", "secret1")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "A@example.com", "other", "secret1")
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
	_, err = svc.Signup(ctx, "b@example.com", "alice", "secret1")
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "a@example.com", "alice", "secret1")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Signup(ctx, "a@example.com", "alice", "secret1")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, a.ID, "wrong", "secret2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.ResetPassword(ctx, a.ID, "secret1", "secret2"))
	_, err = svc.Login(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(ctx, "alice", "secret2")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Signup(ctx, "a@example.com", "alice", "secret1")
	require.NoError(t, err)

	name, gender, age := "Alice", "f", 30
	updated, err := svc.UpdateProfile(ctx, a, domain.ProfileUpdate{Name: &name, Gender: &gender, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)

	token, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	reloaded, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", reloaded.Name)
	assert.Equal(t, "f", reloaded.Gender)
	require.NotNil(t, reloaded.Age)
	assert.Equal(t, 30, *reloaded.Age)
	assert.Equal(t, "a@example.com", reloaded.Email, "nil fields are left unchanged")

	neg := -3
	_, err = svc.UpdateProfile(ctx, reloaded, domain.ProfileUpdate{Age: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogSession_DefaultsToToday(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Signup(ctx, "a@example.com", "alice", "secret1")
	require.NoError(t, err)

	ps, err := svc.LogSession(ctx, a.ID, 300, domain.Date{})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10", ps.PracticedOn.String())

	_, err = svc.LogSession(ctx, a.ID, 0, domain.Date{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.LogSession(ctx, a.ID, 60, domain.NewDate(2024, time.March, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.LogSession(ctx, "no-such-user", 60, domain.Date{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStats_CountsMissedDaysSinceSignup(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	a, err := svc.Signup(ctx, "a@example.com", "alice", "secret1")
	require.NoError(t, err)

	_, err = svc.LogSession(ctx, a.ID, 20*60, domain.Date{})
	require.NoError(t, err)
	_, err = svc.LogSession(ctx, a.ID, 10*60, domain.Date{})
	require.NoError(t, err)

	// Feb 10 practiced, Feb 11-14 not, Feb 15 is today.
	clk.Advance(5 * 24 * time.Hour)
	_, err = svc.LogSession(ctx, a.ID, 15*60, domain.Date{})
	require.NoError(t, err)

	st, err := svc.Stats(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalDays)
	assert.Equal(t, 4, st.MissedDays)
	assert.Equal(t, 45, st.TotalMinutes)
	assert.InDelta(t, 22.5, st.AvgDuration, 0.001)
}

func TestMonth_PracticedAndMissed(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	a, err := svc.Signup(ctx, "a@example.com", "alice", "secret1")
	require.NoError(t, err)
	_, err = svc.LogSession(ctx, a.ID, 600, domain.NewDate(2024, time.February, 10))
	require.NoError(t, err)
	clk.Advance(2 * 24 * time.Hour)
	_, err = svc.LogSession(ctx, a.ID, 600, domain.NewDate(2024, time.February, 12))
	require.NoError(t, err)
	clk.Advance(2 * 24 * time.Hour)

	practiced, missed, err := svc.Month(ctx, a, calendar.Period{Year: 2024, Month: time.February})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-10", "2024-02-12"}, dateStrings(practiced))
	assert.Equal(t, []string{"2024-02-11", "2024-02-13"}, dateStrings(missed))

	practiced, missed, err = svc.Month(ctx, a, calendar.Period{Year: 2024, Month: time.January})
	require.NoError(t, err)
	assert.Empty(t, practiced)
	assert.Empty(t, missed, "nothing is missed before the account existed")

	_, _, err = svc.Month(ctx, a, calendar.Period{Year: 2024, Month: 13})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, calendar.ErrInvalidPeriod)
}
