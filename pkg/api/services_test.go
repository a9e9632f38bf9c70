package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limphasa/schemectl/pkg/scheme"
)

func TestAccounts_LoginStoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/login/", r.URL.Path)
		// Login is a public endpoint
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "jbanda", creds.Username)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access":  "new-access",
			"refresh": "new-refresh",
			"user": map[string]interface{}{
				"id": 12, "username": "jbanda", "role": "treasurer", "is_approved": true,
			},
		})
	}))
	defer server.Close()

	store := newTestStore(t)
	client := newTestClient(t, server, store)
	services := NewServices(client)

	user, err := services.Accounts.Login(context.Background(), Credentials{
		Username: "jbanda",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, scheme.RoleTreasurer, user.Role)

	sess := store.Current()
	require.NotNil(t, sess)
	assert.Equal(t, "new-access", sess.Token.AccessToken)
	assert.Equal(t, "new-refresh", sess.Token.RefreshToken)
}

func TestAccounts_LoginValidatesBeforeWire(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	services := NewServices(newTestClient(t, server, newTestStore(t)))

	_, err := services.Accounts.Login(context.Background(), Credentials{Username: "jbanda"})
	require.True(t, IsValidation(err))
	assert.Contains(t, FieldErrors(err), "password")
	assert.Zero(t, requests)
}

func TestAccounts_LogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleAdmin, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	require.NoError(t, services.Accounts.Logout(context.Background()))
	assert.Nil(t, store.Current())
}

func TestFarmers_CreateValidatesDraft(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleAdmin, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	_, err := services.Farmers.Create(context.Background(), FarmerDraft{
		FirstName: "Mary",
		Gender:    "unknown",
	}, nil)
	require.True(t, IsValidation(err))

	fields := FieldErrors(err)
	assert.Contains(t, fields, "last_name")
	assert.Contains(t, fields, "gender")
	assert.Contains(t, fields, "number_of_plots")
	assert.Zero(t, requests)
}

func TestFarmers_ListDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 12, "next": "http://x/farmers/?page=2", "results": [{"id": 1}]}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleAdmin, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	page, err := services.Farmers.List(context.Background(), FarmerFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Count)
	assert.True(t, page.HasNext())
}

func TestPayments_ListDecodesBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "amount": 500.0}, {"id": 2, "amount": 1000.0}]`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleTreasurer, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	page, err := services.Payments.List(context.Background(), PaymentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	assert.Equal(t, 1500.0, page.Results[0].Amount+page.Results[1].Amount)
}

func TestPayments_CreateNotifiesInvalidator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 42, "farmer": 7, "amount": 500.0}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleTreasurer, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	var events []Event
	services.Invalidator.Subscribe(func(ev Event) { events = append(events, ev) })

	payment, err := services.Payments.Create(context.Background(), PaymentDraft{
		Farmer:      7,
		Amount:      500,
		PaymentType: "plot_fee",
		Description: "first installment",
		DatePaid:    "2026-08-01",
		Method:      "cash",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), payment.ID)

	require.Len(t, events, 1)
	assert.Equal(t, ResourcePayments, events[0].Resource)
	assert.Equal(t, OpCreated, events[0].Op)
	assert.NotEmpty(t, events[0].ID)
}

func TestPayments_VerifyNotifiesInvalidator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/42/verify/", r.URL.Path)
		w.Write([]byte(`{"id": 42, "is_verified": true}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleTreasurer, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	var ops []Op
	services.Invalidator.Subscribe(func(ev Event) { ops = append(ops, ev.Op) })

	payment, err := services.Payments.Verify(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, payment.IsVerified)
	assert.Equal(t, []Op{OpVerified}, ops)
}

func TestAttendance_RecordPinsBlockChairScope(t *testing.T) {
	var gotDraft AttendanceDraft
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotDraft))
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleBlockChair, 2, 5)
	services := NewServices(newTestClient(t, server, store))

	// Empty block and section are pre-filled from the chair's scope
	_, err := services.Attendance.Record(context.Background(), AttendanceDraft{
		Farmer:         7,
		Date:           "2026-08-01",
		AttendanceType: "general_assembly",
		Status:         scheme.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), gotDraft.Block)
	assert.Equal(t, int64(5), gotDraft.Section)
}

func TestAttendance_RecordRejectsOutOfScope(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleBlockChair, 2, 5)
	services := NewServices(newTestClient(t, server, store))

	_, err := services.Attendance.Record(context.Background(), AttendanceDraft{
		Farmer:         7,
		Block:          9,
		Section:        1,
		Date:           "2026-08-01",
		AttendanceType: "general_assembly",
		Status:         scheme.AttendancePresent,
	})
	require.True(t, IsValidation(err))
	assert.Contains(t, FieldErrors(err), "block")
	assert.Zero(t, requests)
}

func TestAttendance_RecordDropsPenaltyUnlessAbsent(t *testing.T) {
	var gotDraft AttendanceDraft
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotDraft))
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleSecretary, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	_, err := services.Attendance.Record(context.Background(), AttendanceDraft{
		Farmer:         7,
		Date:           "2026-08-01",
		AttendanceType: "training",
		Status:         scheme.AttendanceLate,
		PenaltyPoints:  3,
	})
	require.NoError(t, err)
	assert.Zero(t, gotDraft.PenaltyPoints)
}

func TestRefData_SectionsForBlockCached(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "/accounts/filtered-sections/", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("block_id"))
		w.Write([]byte(`[{"id": 31, "name": "Section A", "block": 3}]`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleAdmin, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	for i := 0; i < 3; i++ {
		sections, err := services.RefData.SectionsForBlock(context.Background(), 3)
		require.NoError(t, err)
		require.Len(t, sections, 1)
		assert.Equal(t, "Section A", sections[0].Name)
	}
	assert.Equal(t, 1, requests)
}

func TestRefData_CachePurgedOnInvalidation(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id": 99, "name": "Section B", "block": 3}`))
			return
		}
		requests++
		w.Write([]byte(`[{"id": 31, "name": "Section A", "block": 3}]`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleAdmin, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	_, err := services.RefData.SectionsForBlock(context.Background(), 3)
	require.NoError(t, err)

	// Creating a section invalidates the cache, so the next lookup refetches
	_, err = services.RefData.CreateSection(context.Background(), SectionDraft{Name: "Section B", Block: 3})
	require.NoError(t, err)

	_, err = services.RefData.SectionsForBlock(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestUsers_AssignBlockChairRequiresScope(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleAdmin, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	role := scheme.RoleBlockChair
	_, err := services.Accounts.UpdateUser(context.Background(), 5, UserPatch{Role: &role})
	require.True(t, IsValidation(err))

	fields := FieldErrors(err)
	assert.Contains(t, fields, "block")
	assert.Contains(t, fields, "section")
	assert.Zero(t, requests)
}
