package httpx

import (
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/ports"
)

type stubSessions map[string]*domainauth.Session

func (s stubSessions) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	if v, ok := s[id]; ok {
		return v, nil
	}
	return nil, ports.ErrSessionNotFound
}

var guardSessions = stubSessions{
	"admin": {ID: "admin", Token: "tok-a", User: domainauth.User{ID: "u1", Email: "ada@example.com", IsAdmin: true}},
	"user":  {ID: "user", Token: "tok-u", User: domainauth.User{ID: "u2", Email: "bob@example.com"}},
}

func guarded(mw func(http.Handler) http.Handler) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, token, found := backend.SessionFrom(r.Context()); found {
			w.Header().Set("X-Token", token)
		}
		w.WriteHeader(http.StatusOK)
	})
	return BrowserDetection()(mw(ok))
}

func withSessionCookie(r *http.Request, id string) *http.Request {
	if id != "" {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	}
	return r
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		session    string
		path       string
		headers    map[string]string
		wantCode   int
		wantLoc    string
		wantHX     string
		wantToken  string
		wantJSONCT bool
	}{
		{
			name:     "browser without session goes to login with redirect_uri",
			path:     "/categories?page=2",
			headers:  map[string]string{"Accept": "text/html"},
			wantCode: http.StatusSeeOther,
			wantLoc:  "/auth/login?redirect_uri=%2Fcategories%3Fpage%3D2",
		},
		{
			name:     "unknown session is treated as signed out",
			session:  "gone",
			path:     "/",
			wantCode: http.StatusSeeOther,
			wantLoc:  "/auth/login?redirect_uri=%2F",
		},
		{
			name:     "htmx without session is sent to signed-out page",
			path:     "/posts",
			headers:  map[string]string{"Hx-Request": "true", "Hx-Current-Url": "http://console.local/users?page=3"},
			wantCode: http.StatusOK,
			wantHX:   "/auth/signed-out?redirect_uri=%2Fusers%3Fpage%3D3",
		},
		{
			name:       "json without session gets 401",
			path:       "/notifications/status",
			wantCode:   http.StatusUnauthorized,
			wantJSONCT: true,
		},
		{
			name:     "browser non-admin goes to unauthorized",
			session:  "user",
			path:     "/users",
			wantCode: http.StatusSeeOther,
			wantLoc:  "/unauthorized",
		},
		{
			name:       "json non-admin gets 403",
			session:    "user",
			path:       "/notifications/status",
			wantCode:   http.StatusForbidden,
			wantJSONCT: true,
		},
		{
			name:      "admin passes with backend credentials attached",
			session:   "admin",
			path:      "/users",
			wantCode:  http.StatusOK,
			wantToken: "tok-a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := withSessionCookie(httptest.NewRequest(http.MethodGet, tt.path, nil), tt.session)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			guarded(RequireAdmin(guardSessions)).ServeHTTP(w, r)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantLoc, w.Header().Get("Location"))
			assert.Equal(t, tt.wantHX, w.Header().Get("Hx-Redirect"))
			assert.Equal(t, tt.wantToken, w.Header().Get("X-Token"))
			if tt.wantJSONCT {
				assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
			}
		})
	}
}

func TestRequireAuth_AllowsNonAdmin(t *testing.T) {
	r := withSessionCookie(httptest.NewRequest(http.MethodGet, "/profile", nil), "user")
	w := httptest.NewRecorder()
	guarded(RequireAuth(guardSessions)).ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-u", w.Header().Get("X-Token"))
}

func TestOptionalAuth(t *testing.T) {
	w := httptest.NewRecorder()
	guarded(OptionalAuth(guardSessions)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Token"))
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                         "/",
		"/posts?page=2":            "/posts?page=2",
		"https://evil.example/x":   "/",
		"//evil.example/x":         "/",
		"relative":                 "/",
		"/\\evil.example":          "/",
		"/analytics#top":           "/analytics#top",
		"javascript:alert(1)":      "/",
		"/users?search=a%20b&p=1":  "/users?search=a%20b&p=1",
		"/ok\r\nSet-Cookie: x=1":   "/",
		"/subscriptions/success?a": "/subscriptions/success?a",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}

func TestIsBrowserRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/notifications/config", nil)
	assert.False(t, isBrowserRequest(r))
	r = httptest.NewRequest(http.MethodGet, "/categories", nil)
	r.Header.Set("Accept", "application/json")
	assert.False(t, isBrowserRequest(r))
	r.Header.Set("Hx-Request", "true")
	assert.True(t, isBrowserRequest(r))
}

func TestRecover(t *testing.T) {
	h := Recover(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCompression(t *testing.T) {
	h := Compression(CompressionConfig{Level: 5})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := "image/png"
		if r.URL.Path == "/page" {
			ct = "text/html; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.WriteString(w, "hello hello hello")
	}))

	r := httptest.NewRequest(http.MethodGet, "/page", nil)
	r.Header.Set("Accept-Encoding", "br, gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "hello hello hello", string(body))

	r = httptest.NewRequest(http.MethodGet, "/logo.png", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "hello hello hello", w.Body.String())

	assert.False(t, acceptsGzip("gzip;q=0"))
	assert.False(t, acceptsGzip("identity"))
	assert.True(t, acceptsGzip("deflate, gzip;q=0.5"))
}
