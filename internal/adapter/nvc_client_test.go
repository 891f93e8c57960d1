package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BinGess/Ocean-backend/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NVCClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewNVCClient(config.AI{
		BaseURL:        srv.URL,
		APIToken:       "test-token",
		ProjectID:      "wf-123",
		RequestTimeout: 2 * time.Second,
	})
}

func TestNVCClient_Analyze(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/workflow/run", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "wf-123", body["workflow_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"msg":"","data":{"feelings":["tired"]}}`))
	})

	analysis, statusCode, err := client.Analyze(context.Background(), "long day")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, statusCode)
	assert.JSONEq(t, `{"feelings":["tired"]}`, string(analysis))
}

func TestNVCClient_Analyze_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, statusCode, err := client.Analyze(context.Background(), "text")
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, http.StatusTooManyRequests, statusCode)
}

func TestNVCClient_Analyze_ProviderRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":4001,"msg":"invalid workflow"}`))
	})

	_, statusCode, err := client.Analyze(context.Background(), "text")
	require.ErrorIs(t, err, ErrUpstreamRejected)
	assert.Equal(t, http.StatusOK, statusCode)
}
