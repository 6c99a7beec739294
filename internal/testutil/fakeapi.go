package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Call is one request the fake API received.
type Call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// FakeAPI is an httptest server standing in for the content API.
// Routes are keyed by "METHOD /path" using http.ServeMux patterns.
type FakeAPI struct {
	*httptest.Server

	mu    sync.Mutex
	calls []Call
	mux   *http.ServeMux
}

// NewFakeAPI starts a fake API; it is closed on test cleanup.
func NewFakeAPI(t TestingTB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{mux: http.NewServeMux()}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	c := Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
	if r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &c.Body)
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	f.mux.ServeHTTP(w, r)
}

// Handle registers h for pattern, e.g. "GET /api/category/".
func (f *FakeAPI) Handle(pattern string, h http.HandlerFunc) {
	f.mux.HandleFunc(pattern, h)
}

// JSON registers a route that always answers status with v encoded as JSON.
func (f *FakeAPI) JSON(pattern string, status int, v any) {
	f.Handle(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	})
}

// Calls returns a copy of the received requests.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the received requests matching method and path.
func (f *FakeAPI) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// BaseURL is the API root clients should be configured with.
func (f *FakeAPI) BaseURL() string { return f.URL + "/api" }
