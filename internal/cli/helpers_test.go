package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/being/internal/auth"
	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/config"
	"github.com/alexanderramin/being/internal/devserver"
	"github.com/alexanderramin/being/internal/gateway"
	"github.com/alexanderramin/being/internal/repository"
	"github.com/alexanderramin/being/internal/service"
	"github.com/alexanderramin/being/internal/testutil"
)

// testEnv is the world around a test App: a dev server on an in-memory
// database and the manual clock both sides read.
type testEnv struct {
	clk   *clock.Manual
	srv   *httptest.Server
	chime *recordingChime
}

type recordingChime struct {
	rings atomic.Int32
}

func (c *recordingChime) Ring() { c.rings.Add(1) }

// testApp wires an App to a dev server running in-process. The clock
// starts on Saturday 2024-02-10 at 09:00 local time.
func testApp(t *testing.T) (*App, *testEnv) {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, time.February, 10, 9, 0, 0, 0, time.Local))

	serverDB := testutil.NewServerTestDB(t)
	svc := devserver.NewService(
		repository.NewSQLiteUserRepo(serverDB),
		repository.NewSQLitePracticeSessionRepo(serverDB),
		testutil.NewTestUoW(serverDB),
		auth.NewIssuer("cli-test-secret", 72*time.Hour).WithClock(clk.Now),
		clk,
		4,
	)
	srv := httptest.NewServer(devserver.NewRouter(svc))
	t.Cleanup(srv.Close)

	env := &testEnv{clk: clk, srv: srv, chime: &recordingChime{}}
	return newClientApp(t, srv.URL, env), env
}

func newClientApp(t *testing.T, baseURL string, env *testEnv) *App {
	t.Helper()
	clientDB := testutil.NewTestDB(t)
	tokens := service.NewCredentialTokens(repository.NewSQLiteCredentialRepo(clientDB), env.clk)
	api := gateway.NewHTTPClient(gateway.Config{BaseURL: baseURL, TimeoutMs: 2000}, tokens, nil)

	cfg := config.DefaultConfig()
	cfg.APIURL = baseURL
	cfg.Timer.Chime = true

	return &App{
		Auth:     service.NewAuthService(api, tokens),
		Practice: service.NewPracticeService(api, repository.NewSQLitePendingSessionRepo(clientDB), tokens, env.clk),
		Stats:    service.NewStatsService(api, tokens, env.clk),
		Config:   cfg,
		Clock:    env.clk,
		Chime:    env.chime,
	}
}

// signup creates alice and leaves her logged in.
func signup(t *testing.T, app *App) {
	t.Helper()
	_, err := app.Auth.Signup(context.Background(), service.SignupRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "secret1",
	})
	require.NoError(t, err)
}

// executeCmd runs the root command with args and captures its output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdContext(context.Background(), t, app, args...)
}

func executeCmdContext(ctx context.Context, t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}
