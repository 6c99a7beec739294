package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/ports"
)

func TestLoginPage_RendersForm(t *testing.T) {
	f := newConsoleFixture(t)

	rec := f.do(http.MethodGet, "/auth/login?redirect_uri=/posts", reqOpts{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="identifier"`)
	assert.Contains(t, rec.Body.String(), `value="/posts"`)
}

func TestLoginPage_SignedInGoesToRedirect(t *testing.T) {
	f := newConsoleFixture(t)
	sess := f.login()

	rec := f.do(http.MethodGet, "/auth/login?redirect_uri=/users", reqOpts{session: sess})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		redirect   string
		wantStatus int
		wantLoc    string
	}{
		{name: "valid credentials", password: "secret", redirect: "/posts", wantStatus: http.StatusSeeOther, wantLoc: "/posts"},
		{name: "offsite redirect is dropped", password: "secret", redirect: "https://evil.example", wantStatus: http.StatusSeeOther, wantLoc: "/"},
		{name: "wrong password", password: "nope", redirect: "/posts", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConsoleFixture(t)
			rec := f.do(http.MethodPost, "/auth/login", reqOpts{form: url.Values{
				"identifier":   {"ada@example.com"},
				"password":     {tt.password},
				"redirect_uri": {tt.redirect},
				"csrf_token":   {testCSRF},
			}})

			require.Equal(t, tt.wantStatus, rec.Code)
			cookie := responseCookie(rec, SessionCookieName)
			if tt.wantLoc == "" {
				assert.Nil(t, cookie)
				assert.Contains(t, rec.Body.String(), msgInvalidCredentials)
				return
			}
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.Positive(t, cookie.MaxAge)

			sess, err := f.auth.GetSession(context.Background(), cookie.Value)
			require.NoError(t, err)
			assert.True(t, sess.IsAdmin())
		})
	}
}

func TestLogin_HTMXUsesHXRedirect(t *testing.T) {
	f := newConsoleFixture(t)
	rec := f.do(http.MethodPost, "/auth/login", reqOpts{htmx: true, form: url.Values{
		"identifier": {"ada@example.com"},
		"password":   {"secret"},
	}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))
	assert.NotNil(t, responseCookie(rec, SessionCookieName))
}

func TestLogin_RejectsBadCSRF(t *testing.T) {
	f := newConsoleFixture(t)
	form := url.Values{"identifier": {"ada@example.com"}, "password": {"secret"}}

	for name, header := range map[string]string{"missing": "", "mismatched": "other-token"} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
			if header != "" {
				req.Header.Set(DefaultCSRFHeaderName, header)
			}
			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Nil(t, responseCookie(rec, SessionCookieName))
		})
	}
}

func TestLogout_EndsSession(t *testing.T) {
	f := newConsoleFixture(t)
	sess := f.login()

	rec := f.do(http.MethodPost, "/auth/logout", reqOpts{session: sess, form: url.Values{"redirect_uri": {"/posts"}}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/signed-out?redirect_uri=%2Fposts", rec.Header().Get("Location"))
	cookie := responseCookie(rec, SessionCookieName)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)

	_, err := f.auth.GetSession(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSignedOut_OffersLogin(t *testing.T) {
	f := newConsoleFixture(t)

	rec := f.do(http.MethodGet, "/auth/signed-out?redirect_uri=/users", reqOpts{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/auth/login?redirect_uri=%2Fusers")
}
