package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dataprobe-io/probe-engine/pkg/config"
	"github.com/dataprobe-io/probe-engine/pkg/dialect"
	"github.com/dataprobe-io/probe-engine/pkg/engines"
)

func testMux(t *testing.T) *http.ServeMux {
	t.Helper()
	logger := zaptest.NewLogger(t)

	cfg := &config.Config{Version: "test", Env: "local"}
	manager := engines.NewManager(engines.ManagerConfig{}, nil, logger)
	t.Cleanup(func() { _ = manager.Close() })

	mux := http.NewServeMux()
	NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	NewDialectsHandler(manager, logger).RegisterRoutes(mux)
	return mux
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPingEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "probe-engine", resp.Service)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, "local", resp.Environment)
	assert.NotEmpty(t, resp.GoVersion)
}

func TestDialectsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dialects", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var infos []dialect.Info
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&infos))

	types := make(map[string]bool, len(infos))
	for _, info := range infos {
		types[info.Type] = true
	}
	assert.True(t, types["trino"])
	assert.True(t, types["postgres"])
}

func TestEngineStatsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/engines/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var stats engines.Stats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 0, stats.TotalEngines)
}
