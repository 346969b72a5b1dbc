package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-admin/internal/common/config"
	"estate-admin/internal/common/errors"
	"estate-admin/internal/common/logger"
)

type remote struct {
	*httptest.Server

	mu    sync.Mutex
	calls []string
}

func newRemote(t *testing.T) *remote {
	t.Helper()
	r := &remote{}
	mux := http.NewServeMux()
	reply := func(body interface{}) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		}
	}
	mux.Handle("GET /api/franchisee/requests/statistics", reply(map[string]int{"PENDING": 2, "APPROVED": 3}))
	mux.Handle("GET /api/districts", reply([]map[string]interface{}{{"id": 6, "name": "Nashik", "state": "MH"}}))
	mux.Handle("GET /api/franchisee/reports/admin/all", reply([]map[string]interface{}{
		{"id": 1, "name": "Asha", "status": "APPROVED", "totalRevenue": 1234.5},
		{"id": 2, "name": "Old", "status": "TERMINATED"},
	}))
	mux.Handle("GET /api/franchisee/requests/status/APPROVED", reply(map[string]interface{}{
		"content":       []map[string]interface{}{{"id": 12, "name": "Ravi", "status": "APPROVED", "districtId": 6}},
		"totalElements": 1,
		"totalPages":    1,
	}))
	mux.Handle("DELETE /api/admin/franchisee/12/6", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.calls = append(r.calls, req.Method+" "+req.URL.Path)
		r.mu.Unlock()
		mux.ServeHTTP(w, req)
	}))
	t.Cleanup(r.Close)
	return r
}

func (r *remote) called(call string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if c == call {
			return true
		}
	}
	return false
}

func newTestApp(t *testing.T, baseURL string) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "estate-admin"},
		API:     config.APIConfig{BaseURL: baseURL, Timeout: 5000, UserAgent: "estate-admin-test"},
		Auth:    config.AuthConfig{Mode: "static", Token: "test-token"},
		Chat:    config.ChatConfig{Role: "admin"},
		Cache:   config.CacheConfig{Districts: config.DistrictConfig{MaxCost: 1 << 20, TTL: 60}},
		Listing: config.ListingConfig{PageSize: 10, SortBy: "createdAt", Direction: "DESC"},
		Metrics: config.MetricsConfig{ServiceName: "estate-admin-test"},
	}
	out := &bytes.Buffer{}
	a, err := newApp(context.Background(), cfg, logger.NewTestLogger(t), out)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, out
}

func TestRun_Stats(t *testing.T) {
	srv := newRemote(t)
	a, out := newTestApp(t, srv.URL)

	require.NoError(t, a.run(context.Background(), "stats", nil))

	assert.Contains(t, out.String(), "PENDING")
	assert.Contains(t, out.String(), "TOTAL")
	assert.Regexp(t, `TOTAL\s+5`, out.String())
}

func TestRun_ExportToStdout(t *testing.T) {
	srv := newRemote(t)
	a, out := newTestApp(t, srv.URL)

	require.NoError(t, a.run(context.Background(), "export", []string{"-dir", "-"}))

	assert.Contains(t, out.String(), `"1","Asha"`)
	assert.Contains(t, out.String(), `"1234.50"`)
	assert.NotContains(t, out.String(), "TERMINATED")
	assert.True(t, srv.called("GET /api/districts"))
}

func TestRun_DeleteBlankReasonNeverDispatches(t *testing.T) {
	srv := newRemote(t)
	a, _ := newTestApp(t, srv.URL)

	err := a.run(context.Background(), "delete", []string{"-id", "12", "-reason", "   "})

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, "Reason is required", errors.MessageOf(err, ""))
	assert.False(t, srv.called("DELETE /api/admin/franchisee/12/6"))
}

func TestRun_Delete(t *testing.T) {
	srv := newRemote(t)
	a, out := newTestApp(t, srv.URL)

	require.NoError(t, a.run(context.Background(), "delete", []string{"-id", "12", "-reason", "duplicate"}))

	assert.True(t, srv.called("DELETE /api/admin/franchisee/12/6"))
	assert.Contains(t, out.String(), "Franchisee deleted successfully")
}

func TestRun_UnknownCommand(t *testing.T) {
	a, _ := newTestApp(t, "http://127.0.0.1:1")

	err := a.run(context.Background(), "frobnicate", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "frobnicate"`)
}

func TestRun_ResourcesUsage(t *testing.T) {
	a, _ := newTestApp(t, "http://127.0.0.1:1")

	require.Error(t, a.run(context.Background(), "resources", []string{"coupons"}))
	require.Error(t, a.run(context.Background(), "resources", []string{"widgets", "list"}))
	require.Error(t, a.run(context.Background(), "resources", []string{"coupons", "activate"}))
}

func TestScanLines_StopsWhenDone(t *testing.T) {
	lines := make(chan string)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		scanLines(strings.NewReader("hello\nstill typing\n"), lines, done)
		close(exited)
	}()

	assert.Equal(t, "hello", <-lines)
	close(done)

	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("scanLines kept waiting for a reader after done was closed")
	}
}
