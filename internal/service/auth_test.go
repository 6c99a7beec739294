package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wishara/admin-console/internal/adapters/memory"
	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/mocks"
	"github.com/wishara/admin-console/internal/ports"
	"github.com/wishara/admin-console/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newAuthService(t *testing.T, v ports.CredentialVerifier, store ports.SessionStore, p PushLifecycle) *AuthService {
	t.Helper()
	svc := NewAuthService(AuthServiceOptions{
		Verifier: v,
		Sessions: store,
		Config:   AuthServiceConfig{SessionTTL: 2 * time.Hour, Now: func() time.Time { return fixedNow }},
	})
	if p != nil {
		svc.SetPush(p)
	}
	return svc
}

func TestNewAuthService_RequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(AuthServiceOptions{}) })
	assert.Panics(t, func() {
		NewAuthService(AuthServiceOptions{Verifier: mocks.NewMockCredentialVerifier(gomock.NewController(t))})
	})
}

func TestAuthService_Login_UsesTokenExpiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockCredentialVerifier(ctrl)
	store := memory.NewSessionStore()
	exp := time.Now().Add(30 * time.Minute).UTC().Truncate(time.Second)

	verifier.EXPECT().
		Verify(gomock.Any(), domainauth.Credentials{Identifier: "ada@example.com", Password: "pw"}).
		Return(domainauth.Identity{
			Token:     "tok-1",
			User:      domainauth.User{ID: "u1", Email: "ada@example.com", IsAdmin: true},
			ExpiresAt: exp,
		}, nil)

	svc := newAuthService(t, verifier, store, nil)
	sess, err := svc.Login(context.Background(), domainauth.Credentials{Identifier: "  ada@example.com ", Password: "pw"})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, exp, sess.ExpiresAt)
	assert.Equal(t, fixedNow, sess.CreatedAt)
	assert.True(t, sess.IsAdmin())

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.User.ID)
}

func TestAuthService_Login_FallsBackToSessionTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockCredentialVerifier(ctrl)
	store := mocks.NewMockSessionStore(ctrl)

	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		Return(domainauth.Identity{Token: "opaque", User: domainauth.User{ID: "u1"}}, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s domainauth.Session) error {
		assert.Equal(t, fixedNow.Add(2*time.Hour), s.ExpiresAt)
		return nil
	})

	svc := newAuthService(t, verifier, store, nil)
	_, err := svc.Login(context.Background(), domainauth.Credentials{Identifier: "ada", Password: "pw"})
	require.NoError(t, err)
}

func TestAuthService_Login_ExpiredTokenFallsBackToSessionTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockCredentialVerifier(ctrl)
	store := mocks.NewMockSessionStore(ctrl)

	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		Return(domainauth.Identity{Token: "jwt", User: domainauth.User{ID: "u1"}, ExpiresAt: fixedNow.Add(-time.Minute)}, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s domainauth.Session) error {
		assert.Equal(t, fixedNow.Add(2*time.Hour), s.ExpiresAt)
		return nil
	})

	svc := newAuthService(t, verifier, store, nil)
	sess, err := svc.Login(context.Background(), domainauth.Credentials{Identifier: "ada", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", sess.Token)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockCredentialVerifier(ctrl)
	store := mocks.NewMockSessionStore(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(domainauth.Identity{}, ports.ErrInvalidCredentials)

	svc := newAuthService(t, verifier, store, nil)
	sess, err := svc.Login(context.Background(), domainauth.Credentials{Identifier: "ada", Password: "bad"})
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestAuthService_Login_EmptyCredentialsSkipVerifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := newAuthService(t, mocks.NewMockCredentialVerifier(ctrl), mocks.NewMockSessionStore(ctrl), nil)

	_, err := svc.Login(context.Background(), domainauth.Credentials{Identifier: "   ", Password: "pw"})
	assert.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestAuthService_Login_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockCredentialVerifier(ctrl)
	store := mocks.NewMockSessionStore(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(domainauth.Identity{Token: "t"}, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := newAuthService(t, verifier, store, nil)
	_, err := svc.Login(context.Background(), domainauth.Credentials{Identifier: "a", Password: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
}

func seedSession(t *testing.T, store ports.SessionStore, id string, expires time.Time) domainauth.Session {
	t.Helper()
	sess := domainauth.Session{ID: id, Token: "tok-" + id, User: domainauth.User{ID: "u-" + id, IsAdmin: true}, ExpiresAt: expires}
	require.NoError(t, store.Save(context.Background(), sess))
	return sess
}

func TestAuthService_GetSessionAndCurrentUser(t *testing.T) {
	store := memory.NewSessionStore()
	seedSession(t, store, "s1", time.Now().Add(time.Hour))
	svc := newAuthService(t, mocks.NewMockCredentialVerifier(gomock.NewController(t)), store, nil)
	ctx := context.Background()

	sess, err := svc.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok-s1", sess.Token)
	assert.True(t, svc.IsAuthenticated(ctx, "s1"))

	u, err := svc.CurrentUser(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u-s1", u.ID)

	u, err = svc.CurrentUser(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, svc.IsAuthenticated(ctx, "missing"))
	assert.False(t, svc.IsAuthenticated(ctx, ""))
}

func TestAuthService_GetSession_ExpiredIsDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	push := &fakePush{}
	expired := domainauth.Session{ID: "s1", ExpiresAt: fixedNow.Add(-time.Minute)}

	store.EXPECT().Get(gomock.Any(), "s1").Return(expired, nil)
	store.EXPECT().Delete(gomock.Any(), "s1").Return(nil)

	svc := newAuthService(t, mocks.NewMockCredentialVerifier(ctrl), store, push)
	_, err := svc.GetSession(context.Background(), "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Equal(t, []string{"stop:s1"}, push.Calls())
}

func TestAuthService_UpdateSessionUser_KeepsAdminFlag(t *testing.T) {
	store := memory.NewSessionStore()
	seedSession(t, store, "s1", time.Now().Add(time.Hour))
	svc := newAuthService(t, mocks.NewMockCredentialVerifier(gomock.NewController(t)), store, nil)

	err := svc.UpdateSessionUser(context.Background(), "s1", domainauth.User{FirstName: "Ada", Email: "new@example.com"})
	require.NoError(t, err)

	sess, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", sess.User.FirstName)
	assert.Equal(t, "new@example.com", sess.User.Email)
	assert.Equal(t, "u-s1", sess.User.ID)
	assert.True(t, sess.User.IsAdmin)
}

func TestAuthService_Logout_Order(t *testing.T) {
	store := memory.NewSessionStore()
	seedSession(t, store, "s1", time.Now().Add(time.Hour))
	push := &fakePush{unregisterErr: errors.New("api unreachable")}
	svc := newAuthService(t, mocks.NewMockCredentialVerifier(gomock.NewController(t)), store, push)

	require.NoError(t, svc.Logout(context.Background(), "s1"), "token removal failure does not block logout")
	assert.Equal(t, []string{"unregister:s1", "stop:s1"}, push.Calls())
	assert.Equal(t, 0, store.Len())

	require.NoError(t, svc.Logout(context.Background(), "s1"), "logout is idempotent")
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestAuthService_Teardown_RunsOncePerSession(t *testing.T) {
	store := memory.NewSessionStore()
	seedSession(t, store, "s1", time.Now().Add(time.Hour))
	push := &fakePush{}
	svc := newAuthService(t, mocks.NewMockCredentialVerifier(gomock.NewController(t)), store, push)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Teardown(context.Background(), "s1")
		}()
	}
	wg.Wait()
	svc.Teardown(context.Background(), "s1")

	calls := push.Calls()
	require.Len(t, calls, 17)
	for _, c := range calls {
		assert.Equal(t, "stop:s1", c)
	}
	assert.False(t, svc.IsAuthenticated(context.Background(), "s1"))
}

func TestAuthService_Teardown_StopsManagerOfVanishedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	// Expired by TTL, or revoked from another process.
	store.EXPECT().Get(gomock.Any(), "s1").Return(domainauth.Session{}, ports.ErrSessionNotFound)
	push := &fakePush{}
	svc := newAuthService(t, mocks.NewMockCredentialVerifier(ctrl), store, push)

	svc.Teardown(context.Background(), "s1")
	assert.Equal(t, []string{"stop:s1"}, push.Calls())
}

func TestAuthService_TeardownFromBackend401(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.JSON("GET /api/category/", http.StatusUnauthorized, obj{"success": false, "message": "jwt expired"})

	store := memory.NewSessionStore()
	sess := seedSession(t, store, "s1", time.Now().Add(time.Hour))
	push := &fakePush{}
	svc := newAuthService(t, mocks.NewMockCredentialVerifier(gomock.NewController(t)), store, push)

	client := newClient(t, api)
	client.OnUnauthorized(svc.Teardown)
	categories := NewCategoryService(ResourceOptions{API: client})

	ctx := backend.WithSession(context.Background(), sess.ID, sess.Token)
	_, err := categories.List(ctx)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	_, err = categories.List(ctx)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)

	assert.False(t, svc.IsAuthenticated(context.Background(), "s1"))
	assert.Equal(t, []string{"stop:s1", "stop:s1"}, push.Calls(), "every 401 stops the manager")
}

func TestAuthService_Revoke(t *testing.T) {
	store := memory.NewSessionStore()
	seedSession(t, store, "s1", time.Now().Add(time.Hour))
	push := &fakePush{}
	svc := newAuthService(t, mocks.NewMockCredentialVerifier(gomock.NewController(t)), store, push)

	require.NoError(t, svc.Revoke(context.Background(), "s1"))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, []string{"stop:s1"}, push.Calls())
}
