package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbelyaev/linewatch/internal/config"
)

func testClient(baseURL string) *Client {
	cfg := config.Default()
	cfg.APIBase = baseURL
	return NewClient(cfg)
}

func envelopeOK(data string) string {
	return `{"success":true,"data":` + data + `}`
}

func TestClient_GetJSON_UnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/production/lines/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(envelopeOK(`[{"id":1,"name":"Line A","is_active":true}]`)))
	}))
	defer srv.Close()

	lines, err := testClient(srv.URL).ListLines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].ID)
	assert.Equal(t, "Line A", lines[0].Name)
	assert.True(t, lines[0].Active)
}

func TestClient_ErrorEnvelope_KeepsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"start_date after end_date"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListPlanTasks(context.Background(), ListFilter{})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "start_date after end_date", apiErr.Error())
	assert.ErrorIs(t, err, ErrServer)
}

func TestClient_NotFound_FallsBackToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetScanJob(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ConnectionRefused_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).ListLines(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/core/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.True(t, testClient(srv.URL).Available(context.Background()))

	srv.Close()
	assert.False(t, testClient(srv.URL).Available(context.Background()))
}

func TestClient_MalformedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListLines(context.Background())
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}
