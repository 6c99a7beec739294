package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
	"github.com/wishara/admin-console/internal/migrate"
	"github.com/wishara/admin-console/internal/testutil"
)

func TestAuditRepo_RecordAndList(t *testing.T) {
	pool := testutil.SetupTestPool(t)
	ctx := context.Background()

	applied, err := migrate.Run(ctx, pool)
	require.NoError(t, err)
	assert.NotEmpty(t, applied)

	again, err := migrate.Run(ctx, pool)
	require.NoError(t, err)
	assert.Empty(t, again, "migrations are idempotent")

	repo := NewAuditRepo(pool)
	base := time.Now().UTC().Add(-time.Hour)
	for i, actor := range []string{"alice", "bob", "Alice"} {
		require.NoError(t, repo.Record(ctx, model.AuditEntry{
			Actor:      actor,
			Action:     model.AuditDelete,
			Resource:   "category",
			ResourceID: string(rune('a' + i)),
			At:         base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, total, err := repo.List(ctx, model.AuditListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].ResourceID)
	assert.Equal(t, model.AuditDelete, entries[0].Action)

	alice, total, err := repo.List(ctx, model.AuditListOptions{Actor: "ALICE"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, alice, 2)
}

func TestAuditRepo_ZeroTimeUsesNow(t *testing.T) {
	pool := testutil.SetupTestPool(t)
	ctx := context.Background()
	_, err := migrate.Run(ctx, pool)
	require.NoError(t, err)

	repo := NewAuditRepo(pool)
	require.NoError(t, repo.Record(ctx, model.AuditEntry{Actor: "a", Action: model.AuditCreate, Resource: "post"}))
	entries, _, err := repo.List(ctx, model.AuditListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.WithinDuration(t, time.Now(), entries[0].At, time.Minute)
}

func TestAuditRepo_MissingSchemaIsUnavailable(t *testing.T) {
	pool := testutil.SetupTestPool(t)
	repo := NewAuditRepo(pool)

	err := repo.Record(context.Background(), model.AuditEntry{Actor: "a", Action: model.AuditCreate, Resource: "post"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.GetCode(err))
}
