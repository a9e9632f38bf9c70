package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limphasa/schemectl/pkg/scheme"
)

func TestPostMultipart_EncodesFieldsAndFile(t *testing.T) {
	var gotFields map[string]string
	var gotFileName, gotFileBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for key, vals := range r.MultipartForm.Value {
			gotFields[key] = vals[0]
		}
		file, header, err := r.FormFile("receipt")
		require.NoError(t, err)
		defer file.Close()
		gotFileName = header.Filename
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		gotFileBody = string(data)
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleTreasurer, 0, 0)
	client := newTestClient(t, server, store)

	fields := map[string]string{"farmer": "7", "amount": "500.00", "notes": ""}
	files := []FileField{{
		Field:   "receipt",
		Name:    "receipt.png",
		Content: strings.NewReader("png-bytes"),
	}}

	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, client.PostMultipart(context.Background(), "/payments/", fields, files, &out))

	assert.Equal(t, "7", gotFields["farmer"])
	assert.Equal(t, "500.00", gotFields["amount"])
	// Empty fields are omitted from the form
	assert.NotContains(t, gotFields, "notes")
	assert.Equal(t, "receipt.png", gotFileName)
	assert.Equal(t, "png-bytes", gotFileBody)
	assert.Equal(t, int64(1), out.ID)
}

func TestPaymentsCreate_WithReceiptUsesMultipart(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id": 2}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleTreasurer, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	receipt := &FileField{Field: "receipt", Name: "r.png", Content: strings.NewReader("x")}
	_, err := services.Payments.Create(context.Background(), PaymentDraft{
		Farmer:      7,
		Amount:      500,
		PaymentType: "plot_fee",
		Description: "installment",
		DatePaid:    "2026-08-01",
		Method:      "bank",
	}, receipt)
	require.NoError(t, err)
	assert.Contains(t, gotContentType, "multipart/form-data")
}

func TestFarmersUpdatePhoto_PatchesMultipart(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("photo")
		require.NoError(t, err)
		w.Write([]byte(`{"id": 9}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleAdmin, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	farmer, err := services.Farmers.UpdatePhoto(context.Background(), 9,
		FileField{Field: "photo", Name: "p.jpg", Content: strings.NewReader("img")})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/farmers/farmers/9/", gotPath)
	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.Equal(t, int64(9), farmer.ID)
}

func TestPaymentsCreate_WithoutReceiptUsesJSON(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id": 3}`))
	}))
	defer server.Close()

	store := newTestStore(t)
	loginAs(t, store, scheme.RoleTreasurer, 0, 0)
	services := NewServices(newTestClient(t, server, store))

	_, err := services.Payments.Create(context.Background(), PaymentDraft{
		Farmer:      7,
		Amount:      500,
		PaymentType: "plot_fee",
		Description: "installment",
		DatePaid:    "2026-08-01",
		Method:      "cash",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
}
