package dataaccess

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"estate-admin/internal/common/auth"
	httpclient "estate-admin/internal/common/http"
	"estate-admin/internal/common/logger"
)

type recordedCall struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   []byte
}

// fakeRemote routes "METHOD /path" to canned JSON responses and records calls.
type fakeRemote struct {
	t      *testing.T
	mu     sync.Mutex
	calls  []recordedCall
	routes map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeRemote(t *testing.T) (*fakeRemote, *httpclient.Client) {
	t.Helper()
	f := &fakeRemote{t: t, routes: map[string]func(http.ResponseWriter, *http.Request){}}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)
	client := httpclient.NewClient(server.URL, 5*time.Second, auth.StaticToken("test-token"), logger.NewTestLogger(t))
	return f, client
}

func (f *fakeRemote) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body})
	handler, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route"}`))
		return
	}
	handler(w, r)
}

func (f *fakeRemote) json(method, path string, status int, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if payload != nil {
			_ = json.NewEncoder(w).Encode(payload)
		}
	}
}

func (f *fakeRemote) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}
