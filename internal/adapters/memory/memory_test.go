package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/domain/push"
	"github.com/wishara/admin-console/internal/ports"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "a", Token: "t", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Token)

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_ExpiresLazily(t *testing.T) {
	store := NewSessionStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "b", ExpiresAt: now.Add(time.Minute)}))
	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, err := store.Get(ctx, "b")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())

	assert.Error(t, store.Save(ctx, domainauth.Session{ID: "c", ExpiresAt: now}))
}

func TestReportStore(t *testing.T) {
	store := NewReportStore()
	ctx := context.Background()

	r, err := store.GetReport(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, push.BrowserReport{}, r)

	require.NoError(t, store.SaveReport(ctx, "x", push.BrowserReport{Permission: push.PermissionGranted, Token: "tok"}))
	r, _ = store.GetReport(ctx, "x")
	assert.Equal(t, "tok", r.Token)

	require.NoError(t, store.DeleteReport(ctx, "x"))
	r, _ = store.GetReport(ctx, "x")
	assert.Empty(t, r.Token)
	assert.Error(t, store.SaveReport(ctx, "", push.BrowserReport{}))
}

func TestAuditRing_WrapsAndPages(t *testing.T) {
	ring := NewAuditRing(3)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		actor := "alice"
		if i%2 == 0 {
			actor = "bob"
		}
		require.NoError(t, ring.Record(ctx, model.AuditEntry{Actor: actor, Action: model.AuditCreate, ResourceID: fmt.Sprint(i)}))
	}

	all, total, err := ring.List(ctx, model.AuditListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "5", all[0].ResourceID)
	assert.Equal(t, "3", all[2].ResourceID)
	assert.Equal(t, int64(5), all[0].ID)

	page, total, err := ring.List(ctx, model.AuditListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "4", page[0].ResourceID)

	bobs, total, err := ring.List(ctx, model.AuditListOptions{Actor: "BOB"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "4", bobs[0].ResourceID)

	none, _, err := ring.List(ctx, model.AuditListOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}
