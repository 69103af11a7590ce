// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yardmap/internal/api"
	"github.com/taibuivan/yardmap/internal/platform/metrics"
	"github.com/taibuivan/yardmap/internal/platform/sec"
	"github.com/taibuivan/yardmap/internal/yard/cellinfo"
	"github.com/taibuivan/yardmap/internal/yard/layout"
)

type corsConfig struct{}

func (corsConfig) IsDevelopment() bool      { return true }
func (corsConfig) AllowedOrigins() []string { return nil }

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*sec.AuthClaims, error) {
	return nil, errors.New("no tokens in this test")
}

func newServer(t *testing.T, checks []api.HealthCheck) http.Handler {
	t.Helper()

	context, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := layout.NewMemoryStore()
	registry := metrics.NewRegistry()
	liveness, readiness := api.NewHealthHandlers(checks, logger)

	server := api.NewServer(context, api.Options{Port: "0", CORS: corsConfig{}}, logger, rejectAll{}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Layout:    layout.NewHandler(layout.NewService(store, nil, registry, layout.Limits{MaxLength: 10, MaxWidth: 10}, logger)),
		CellInfo:  cellinfo.NewHandler(cellinfo.NewService(cellinfo.NewMemoryRepository(store), nil, registry, logger)),
		Metrics:   registry,
	})
	return server.Handler()
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func TestServer_Routes(t *testing.T) {
	handler := newServer(t, nil)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"liveness", "/health", http.StatusOK},
		{"readiness", "/ready", http.StatusOK},
		{"layout", "/api/v1/layout", http.StatusOK},
		{"categories", "/api/v1/categories", http.StatusOK},
		{"cell_info_needs_staff", "/api/v1/cell-info", http.StatusUnauthorized},
		{"unknown", "/api/v1/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := get(handler, tt.path)
			assert.Equal(t, tt.status, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
		})
	}

	recorder := get(handler, "/metrics")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `yardmap_http_requests_total{method="GET",route="/api/v1/layout",status="200"} 1`)
}

func TestServer_ReadinessDegraded(t *testing.T) {
	handler := newServer(t, []api.HealthCheck{
		{Name: "postgres", Check: func(context.Context) error { return nil }},
		{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
	})

	recorder := get(handler, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"degraded","checks":[
		{"name":"postgres","ok":true},
		{"name":"redis","ok":false,"error":"connection refused"}
	]}}`, recorder.Body.String())
}
