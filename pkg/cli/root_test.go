package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/config"
	"github.com/limphasa/schemectl/pkg/gate"
	"github.com/limphasa/schemectl/pkg/observability"
	"github.com/limphasa/schemectl/pkg/scheme"
	"github.com/limphasa/schemectl/pkg/session"
	"github.com/limphasa/schemectl/pkg/viewdata"
)

func newTestApp(t *testing.T, handler http.Handler) (*App, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	logger := observability.NewLogger(observability.ErrorLevel, nil)
	client, err := api.NewClient(server.URL, 5*time.Second, sessions, logger)
	require.NoError(t, err)
	services := api.NewServices(client)

	out := &bytes.Buffer{}
	app := &App{
		Config:   &config.Config{},
		Logger:   logger,
		Sessions: sessions,
		Services: services,
		Gate:     gate.New(sessions),
		Loader:   viewdata.NewLoader(services),
		Out:      out,
	}
	return app, out
}

func loginTestApp(t *testing.T, app *App, role scheme.Role) {
	t.Helper()
	err := app.Sessions.Login(
		&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"},
		&scheme.User{ID: 1, Username: "tester", FirstName: "Test", LastName: "User", Role: role, IsApproved: true},
	)
	require.NoError(t, err)
}

func TestRootCommand_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, http.NotFoundHandler())
	root := NewRootCommand(app)

	err := root.Execute(context.Background(), []string{"frobnicate"})
	assert.ErrorContains(t, err, "unknown command")
}

func TestRootCommand_NoArgsPrintsUsage(t *testing.T) {
	app, _ := newTestApp(t, http.NotFoundHandler())
	root := NewRootCommand(app)
	assert.NoError(t, root.Execute(context.Background(), nil))
}

func TestWhoami_LoggedOut(t *testing.T) {
	app, out := newTestApp(t, http.NotFoundHandler())
	root := NewRootCommand(app)

	require.NoError(t, root.Execute(context.Background(), []string{"whoami"}))
	assert.Contains(t, out.String(), "Not logged in")
}

func TestWhoamiRemote_PrintsServerProfile(t *testing.T) {
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/profile/", r.URL.Path)
		w.Write([]byte(`{"id": 1, "username": "tester", "first_name": "Renamed", "last_name": "User", "role": "treasurer", "is_approved": true}`))
	}))
	loginTestApp(t, app, scheme.RoleTreasurer)
	root := NewRootCommand(app)

	require.NoError(t, root.Execute(context.Background(), []string{"whoami", "-remote"}))
	assert.Contains(t, out.String(), "Renamed User (treasurer)")
	assert.Contains(t, out.String(), "payments")
}

func routeDecisions(t *testing.T, out string) map[string]string {
	t.Helper()
	decisions := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.GreaterOrEqual(t, len(fields), 2)
		decisions[fields[0]] = strings.Join(fields[1:], " ")
	}
	return decisions
}

func TestRoutes_LoggedOutNeedsLoginForProtectedRoutes(t *testing.T) {
	app, out := newTestApp(t, http.NotFoundHandler())
	root := NewRootCommand(app)

	require.NoError(t, root.Execute(context.Background(), []string{"routes"}))

	decisions := routeDecisions(t, out.String())
	assert.Equal(t, "allowed", decisions["/login"])
	assert.Equal(t, "allowed", decisions["/aboutUs"])
	assert.Equal(t, "login required", decisions["/dashboard"])
	assert.Equal(t, "login required", decisions["/payments"])
}

func TestRoutes_TreasurerDecisionsPerRoute(t *testing.T) {
	app, out := newTestApp(t, http.NotFoundHandler())
	loginTestApp(t, app, scheme.RoleTreasurer)
	root := NewRootCommand(app)

	require.NoError(t, root.Execute(context.Background(), []string{"routes"}))

	decisions := routeDecisions(t, out.String())
	assert.Equal(t, "allowed", decisions["/treasurer-dashboard"])
	assert.Equal(t, "allowed", decisions["/payments"])
	assert.Equal(t, "denied", decisions["/farmers"])
	assert.Equal(t, "denied", decisions["/dashboard"])
}

func TestWhoami_ListsVisibleViews(t *testing.T) {
	app, out := newTestApp(t, http.NotFoundHandler())
	loginTestApp(t, app, scheme.RoleTreasurer)
	root := NewRootCommand(app)

	require.NoError(t, root.Execute(context.Background(), []string{"whoami"}))
	assert.Contains(t, out.String(), "treasurer")
	assert.Contains(t, out.String(), "payments")
	assert.NotContains(t, out.String(), "farmers")
}

func TestDataCommand_RequiresLogin(t *testing.T) {
	requests := 0
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	root := NewRootCommand(app)

	err := root.Execute(context.Background(), []string{"farmers", "list"})
	assert.ErrorContains(t, err, "not logged in")
	assert.Zero(t, requests)
}

func TestDataCommand_EnforcesRole(t *testing.T) {
	requests := 0
	app, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	loginTestApp(t, app, scheme.RoleTreasurer)
	root := NewRootCommand(app)

	// A treasurer cannot open the farmers view
	err := root.Execute(context.Background(), []string{"farmers", "list"})
	assert.ErrorContains(t, err, "not allowed")
	assert.Zero(t, requests)
}

func TestFarmersList_PrintsPage(t *testing.T) {
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 1, "results": [{"id": 7, "first_name": "Mary", "last_name": "Phiri"}]}`))
	}))
	loginTestApp(t, app, scheme.RoleAdmin)
	root := NewRootCommand(app)

	require.NoError(t, root.Execute(context.Background(), []string{"farmers", "list"}))
	assert.Contains(t, out.String(), "Mary")
	assert.Contains(t, out.String(), "Phiri")
}

func TestPaymentsVerify_RequiresID(t *testing.T) {
	app, _ := newTestApp(t, http.NotFoundHandler())
	loginTestApp(t, app, scheme.RoleTreasurer)
	root := NewRootCommand(app)

	err := root.Execute(context.Background(), []string{"payments", "verify"})
	assert.ErrorContains(t, err, "id is required")
}

func TestLogin_StoresSessionAndPrintsLanding(t *testing.T) {
	app, out := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/login/", r.URL.Path)
		w.Write([]byte(`{"access": "a", "refresh": "r", "user": {"id": 1, "username": "chair", "role": "block_chair", "block": 2, "section": 5, "is_approved": true}}`))
	}))
	root := NewRootCommand(app)

	err := root.Execute(context.Background(), []string{"login", "-username", "chair", "-password", "secret"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "blockchair-dashboard")
	require.NotNil(t, app.Sessions.Current())
	assert.Equal(t, scheme.RoleBlockChair, app.Sessions.Current().User.Role)
}
