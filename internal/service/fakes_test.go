package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/auth"
	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/domain"
	"github.com/alexanderramin/being/internal/gateway"
	"github.com/alexanderramin/being/internal/repository"
	"github.com/alexanderramin/being/internal/testutil"
)

// fakeAPI is an in-memory gateway.API. Each endpoint can be made to fail by
// setting the matching error field.
type fakeAPI struct {
	mu sync.Mutex

	user      domain.User
	token     string
	password  string
	stats     domain.RemoteStats
	calendars map[string]domain.MonthCalendar

	saved         []gateway.SessionInput
	calendarCalls []string
	signups       []gateway.SignupInput
	updates       []domain.ProfileUpdate

	loginErr   error
	meErr      error
	saveErrs   []error // consumed one per SaveSession call; nil entries succeed
	statsErr   error
	profileErr error
	resetErr   error
}

func newFakeAPI(token string) *fakeAPI {
	return &fakeAPI{
		token:     token,
		password:  "secret",
		user:      domain.User{Username: "alice", Email: "alice@example.com"},
		calendars: map[string]domain.MonthCalendar{},
	}
}

func (f *fakeAPI) Signup(_ context.Context, in gateway.SignupInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signups = append(f.signups, in)
	f.user = domain.User{Username: in.Username, Email: in.Email}
	f.password = in.Password
	return nil
}

func (f *fakeAPI) Login(_ context.Context, identifier, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if password != f.password {
		return "", &gateway.APIError{Status: 401, Message: "invalid credentials"}
	}
	return f.token, nil
}

func (f *fakeAPI) Me(context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.meErr != nil {
		return nil, f.meErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, upd domain.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return f.profileErr
	}
	f.updates = append(f.updates, upd)
	if upd.Name != nil {
		f.user.Name = *upd.Name
	}
	if upd.Age != nil {
		f.user.Age = upd.Age
	}
	if upd.Gender != nil {
		f.user.Gender = *upd.Gender
	}
	if upd.Email != nil {
		f.user.Email = *upd.Email
	}
	return nil
}

func (f *fakeAPI) ResetPassword(_ context.Context, oldPassword, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	if oldPassword != f.password {
		return &gateway.APIError{Status: 400, Message: "current password is incorrect"}
	}
	f.password = newPassword
	return nil
}

func (f *fakeAPI) SaveSession(_ context.Context, in gateway.SessionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saveErrs) > 0 {
		err := f.saveErrs[0]
		f.saveErrs = f.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	f.saved = append(f.saved, in)
	return nil
}

func (f *fakeAPI) Stats(context.Context) (domain.RemoteStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, f.statsErr
}

func (f *fakeAPI) Calendar(_ context.Context, year int, month time.Month) (domain.MonthCalendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%04d-%02d", year, int(month))
	f.calendarCalls = append(f.calendarCalls, key)
	return f.calendars[key], nil
}

// fixture bundles a client database, a manual clock fixed at
// 2024-02-15 10:00 local time, and a logged-in credential.
type fixture struct {
	api     *fakeAPI
	clk     *clock.Manual
	creds   repository.CredentialRepo
	pending repository.PendingSessionRepo
	tokens  *CredentialTokens
	token   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	clk := clock.NewManual(time.Date(2024, time.February, 15, 10, 0, 0, 0, time.Local))

	token, err := auth.NewIssuer("test-secret", 24*time.Hour).WithClock(clk.Now).Issue("user-1", "alice")
	require.NoError(t, err)

	creds := repository.NewSQLiteCredentialRepo(database)
	return &fixture{
		api:     newFakeAPI(token),
		clk:     clk,
		creds:   creds,
		pending: repository.NewSQLitePendingSessionRepo(database),
		tokens:  NewCredentialTokens(creds, clk),
		token:   token,
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.creds.Save(context.Background(), &domain.Credential{
		Token:    f.token,
		Username: "alice",
		Email:    "alice@example.com",
		SavedAt:  f.clk.Now(),
	}))
}

// recordingObserver collects use-case events.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingObserver) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Name)
	}
	return out
}
