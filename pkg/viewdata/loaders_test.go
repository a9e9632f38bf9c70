package viewdata

import (
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
	"github.com/limphasa/schemectl/pkg/scheme"
	"github.com/limphasa/schemectl/pkg/session"
)

func newTestLoader(t *testing.T, handler http.Handler) *Loader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	err := store.Login(
		&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"},
		&scheme.User{ID: 1, Role: scheme.RoleTreasurer, IsApproved: true},
	)
	require.NoError(t, err)

	client, err := api.NewClient(server.URL, 5*time.Second, store, nil)
	require.NoError(t, err)
	return NewLoader(api.NewServices(client))
}

func TestLoadTreasurerDashboard(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/farmers/farmers/"):
			w.Write([]byte(`{"count": 2, "results": [
				{"id": 1, "first_name": "Mary", "number_of_plots": 3, "amount_per_plot": 1000},
				{"id": 2, "first_name": "John", "number_of_plots": 1, "amount_per_plot": 1000}
			]}`))
		case r.URL.Path == "/payments/stats/":
			w.Write([]byte(`{"total_payments": 1, "total_amount": 1500}`))
		case r.URL.Path == "/payments/":
			w.Write([]byte(`[{"id": 1, "farmer": 1, "amount": 1500.0}]`))
		default:
			http.NotFound(w, r)
		}
	}))

	dash, err := loader.LoadTreasurerDashboard(context.Background())
	require.NoError(t, err)

	assert.Len(t, dash.Farmers, 2)
	assert.Len(t, dash.Payments, 1)
	require.NotNil(t, dash.Stats)
	assert.Equal(t, 1500.0, dash.Stats.TotalAmount)

	// Farmer 1 owes 1500 of 3000; farmer 2 owes the full 1000
	require.Len(t, dash.Outstanding, 2)
	assert.Equal(t, 1500.0, scheme.Balance(&dash.Outstanding[0], dash.Payments))
	assert.Equal(t, 1000.0, scheme.Balance(&dash.Outstanding[1], dash.Payments))
}

func TestLoadTreasurerDashboard_FailsAsUnit(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/payments/" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))

	dash, err := loader.LoadTreasurerDashboard(context.Background())
	assert.Nil(t, dash)
	assert.True(t, api.IsServerFault(err))
}

func TestLoadAttendanceForm(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/farmers/farmers/"):
			w.Write([]byte(`{"count": 1, "results": [{"id": 1, "first_name": "Mary"}]}`))
		case r.URL.Path == "/farmers/blocks/":
			w.Write([]byte(`[{"id": 1, "name": "Block A"}, {"id": 2, "name": "Block B"}]`))
		default:
			http.NotFound(w, r)
		}
	}))

	form, err := loader.LoadAttendanceForm(context.Background())
	require.NoError(t, err)
	assert.Len(t, form.Farmers, 1)
	assert.Len(t, form.Blocks, 2)
}

func TestLoader_WalksAllPages(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/farmers/farmers/"):
			if r.URL.Query().Get("page") == "2" {
				w.Write([]byte(`{"count": 12, "results": [{"id": 11}, {"id": 12}]}`))
				return
			}
			w.Write([]byte(`{"count": 12, "next": "http://x/farmers/?page=2", "results": [
				{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5},
				{"id": 6}, {"id": 7}, {"id": 8}, {"id": 9}, {"id": 10}
			]}`))
		case r.URL.Path == "/farmers/blocks/":
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))

	form, err := loader.LoadAttendanceForm(context.Background())
	require.NoError(t, err)
	assert.Len(t, form.Farmers, 12)
}
