// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cellinfo_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/middleware"
	"github.com/taibuivan/yardmap/internal/platform/sec"
	"github.com/taibuivan/yardmap/internal/yard/cellinfo"
	"github.com/taibuivan/yardmap/internal/yard/layout"
)

type tokenTable map[string]*sec.AuthClaims

func (tokens tokenTable) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := tokens[token]; ok {
		return claims, nil
	}
	return nil, errors.New("unknown token")
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := layout.NewMemoryStore()
	_, err := layout.NewService(store, nil, nil, layout.Limits{MaxLength: 10, MaxWidth: 10}, logger).
		Resize(context.Background(), 2, 2)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokenTable{
		"admin": {UserID: "op-1", Role: string(sec.RoleAdmin)},
		"staff": {UserID: "op-2", Role: string(sec.RoleStaff)},
	}))
	cellinfo.NewHandler(cellinfo.NewService(cellinfo.NewMemoryRepository(store), nil, nil, logger)).RegisterRoutes(router)
	return router
}

func call(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func data(t *testing.T, recorder *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Data
}

func TestHandler_RecordFlow(t *testing.T) {
	router := newRouter(t)

	recorder := call(t, router, http.MethodPost, "/cell-info", "staff",
		`{"cell_id":"1_2","shipping_line":"COSCO","size":"1 x 20","type":"OPEN TOP"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created cellinfo.Info
	require.NoError(t, json.Unmarshal(data(t, recorder), &created))
	assert.Equal(t, "Available", created.CellStatus)

	recorder = call(t, router, http.MethodPut, "/cell-info/1_2", "admin",
		`{"shipping_line":"COSCO","size":"1 x 20","type":"OPEN TOP","cell_status":"For Repair"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = call(t, router, http.MethodPost, "/cell-info/move", "staff", `{"from_cell_id":"1_2","to_cell_id":"2_1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = call(t, router, http.MethodGet, "/cell-info/2_1", "staff", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var moved cellinfo.Info
	require.NoError(t, json.Unmarshal(data(t, recorder), &moved))
	assert.Equal(t, "For Repair", moved.CellStatus)
	assert.Equal(t, created.ID, moved.ID)

	recorder = call(t, router, http.MethodDelete, "/cell-info/2_1", "staff", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = call(t, router, http.MethodGet, "/cell-info", "staff", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, string(data(t, recorder)))
}

func TestHandler_Options(t *testing.T) {
	recorder := call(t, newRouter(t), http.MethodGet, "/cell-info/options", "staff", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var options struct {
		Sizes        []string `json:"sizes"`
		CellStatuses []string `json:"cell_statuses"`
	}
	require.NoError(t, json.Unmarshal(data(t, recorder), &options))
	assert.Equal(t, cellinfo.Sizes, options.Sizes)
	assert.Equal(t, cellinfo.Statuses, options.CellStatuses)
}

func TestHandler_Errors(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{"anonymous", http.MethodGet, "/cell-info", "", "", http.StatusUnauthorized},
		{"bad_token", http.MethodGet, "/cell-info", "forged", "", http.StatusUnauthorized},
		{"invalid_json", http.MethodPost, "/cell-info", "staff", `{`, http.StatusBadRequest},
		{"off_grid", http.MethodPost, "/cell-info", "staff", `{"cell_id":"5_5","shipping_line":"MSC","size":"1 x 20","type":"REEFER"}`, http.StatusNotFound},
		{"missing_record", http.MethodDelete, "/cell-info/1_1", "staff", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := call(t, router, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}
