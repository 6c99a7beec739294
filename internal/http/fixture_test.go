package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/config"
	"github.com/wishara/admin-console/internal/adapters/devauth"
	"github.com/wishara/admin-console/internal/adapters/memory"
	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/domain/push"
	"github.com/wishara/admin-console/internal/service"
	"github.com/wishara/admin-console/internal/testutil"
)

type obj map[string]any

func envelope(data any) obj { return obj{"success": true, "data": data} }

const testCSRF = "csrf-test-token"

// consoleFixture is a full router over a fake content API with dev-mode login.
type consoleFixture struct {
	t       *testing.T
	api     *testutil.FakeAPI
	auth    *service.AuthService
	audit   *service.AuditService
	handler http.Handler
}

type fixtureSettings struct {
	push   PushService
	member bool
}

type fixtureOption func(*fixtureSettings)

func withPush(p PushService) fixtureOption {
	return func(s *fixtureSettings) { s.push = p }
}

// asMember signs in without the admin capability.
func asMember() fixtureOption {
	return func(s *fixtureSettings) { s.member = true }
}

func newConsoleFixture(t *testing.T, opts ...fixtureOption) *consoleFixture {
	t.Helper()
	var settings fixtureSettings
	for _, o := range opts {
		o(&settings)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := testutil.NewFakeAPI(t)

	client, err := backend.New(backend.Options{BaseURL: api.BaseURL(), Timeout: 2 * time.Second, Logger: logger})
	require.NoError(t, err)

	verifier, err := devauth.NewProvider(devauth.Config{
		Identifier: "ada@example.com",
		Password:   "secret",
		UserID:     "u1",
		IsAdmin:    !settings.member,
	})
	require.NoError(t, err)

	auth := service.NewAuthService(service.AuthServiceOptions{
		Verifier: verifier,
		Sessions: memory.NewSessionStore(),
		Config:   service.AuthServiceConfig{SessionTTL: time.Hour, Logger: logger},
	})
	client.OnUnauthorized(auth.Teardown)

	audit := service.NewAuditService(service.AuditServiceOptions{Repo: memory.NewAuditRing(100), Logger: logger})
	res := service.ResourceOptions{API: client, Audit: audit, Logger: logger}

	rs := RouterServices{
		Auth:          auth,
		Categories:    service.NewCategoryService(res),
		Posts:         service.NewPostService(res),
		Affirmations:  service.NewAffirmationService(res),
		Communities:   service.NewCommunityService(res),
		Users:         service.NewUserService(res),
		Subscriptions: service.NewSubscriptionService(res),
		AdminSubs:     service.NewAdminSubscriptionService(res),
		Notifications: service.NewNotificationService(res, time.UTC),
		Analytics:     service.NewAnalyticsService(res, time.UTC),
		Audit:         audit,
		PushConfig: config.PushConfig{
			Enabled:  true,
			VAPIDKey: "vapid-public",
			Firebase: config.FirebaseWebConfig{ProjectID: "wishara-test"},
		},
		Push:       settings.push,
		Logger:     logger,
		TemplateFS: os.DirFS(TemplatePathFromTest),
	}

	h, err := NewRouter(rs)
	require.NoError(t, err)
	return &consoleFixture{t: t, api: api, auth: auth, audit: audit, handler: h}
}

// login starts a session directly through the auth service.
func (f *consoleFixture) login() *domainauth.Session {
	f.t.Helper()
	sess, err := f.auth.Login(context.Background(), domainauth.Credentials{Identifier: "ada@example.com", Password: "secret"})
	require.NoError(f.t, err)
	return sess
}

type reqOpts struct {
	session *domainauth.Session
	form    url.Values
	json    string
	htmx    bool
}

// do sends a request through the router. Unsafe methods carry a valid CSRF pair.
func (f *consoleFixture) do(method, target string, o reqOpts) *httptest.ResponseRecorder {
	f.t.Helper()
	var body io.Reader
	switch {
	case o.form != nil:
		body = strings.NewReader(o.form.Encode())
	case o.json != "":
		body = strings.NewReader(o.json)
	}
	req := httptest.NewRequest(method, target, body)
	switch {
	case o.form != nil:
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	case o.json != "":
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
	req.Header.Set(DefaultCSRFHeaderName, testCSRF)
	if o.session != nil {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: o.session.ID})
	}
	if o.htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// fakePush records what the push endpoints forward to the registry.
type fakePush struct {
	mu        sync.Mutex
	reports   []string
	stopped   []string
	reportErr error
	snapshot  push.Snapshot
}

func (p *fakePush) Report(_ context.Context, sess domainauth.Session, perm push.Permission, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, sess.ID+":"+string(perm)+":"+token)
	return p.reportErr
}

func (p *fakePush) Snapshot(string) push.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *fakePush) Stop(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = append(p.stopped, sessionID)
}
