package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/adapters/memory"
	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/testutil"
)

type obj map[string]any

func envelope(data any) obj { return obj{"success": true, "data": data} }

func newClient(t *testing.T, api *testutil.FakeAPI) *backend.Client {
	t.Helper()
	c, err := backend.New(backend.Options{BaseURL: api.BaseURL(), Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func sessionCtx() context.Context {
	return WithActor(backend.WithSession(context.Background(), "sess-1", "tok-1"), "Ada Admin")
}

type resourceFixture struct {
	api   *testutil.FakeAPI
	audit *memory.AuditRing
	opts  ResourceOptions
}

func newResourceFixture(t *testing.T) resourceFixture {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	ring := memory.NewAuditRing(100)
	return resourceFixture{
		api:   api,
		audit: ring,
		opts: ResourceOptions{
			API:   newClient(t, api),
			Audit: NewAuditService(AuditServiceOptions{Repo: ring}),
		},
	}
}

// fakePush records PushLifecycle calls in order.
type fakePush struct {
	mu            sync.Mutex
	calls         []string
	unregisterErr error
}

func (f *fakePush) Unregister(_ context.Context, sess domainauth.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "unregister:"+sess.ID)
	return f.unregisterErr
}

func (f *fakePush) Stop(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "stop:"+sessionID)
}

func (f *fakePush) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
