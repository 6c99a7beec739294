package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
)

func TestCategoryService_CreateMergesServerCopy(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("GET /api/category/{$}", http.StatusOK, envelope([]obj{{"id": "c1", "name": "Sleep"}}))
	f.api.JSON("POST /api/category/{$}", http.StatusCreated, envelope(obj{"id": "c2", "name": "Health", "isPremium": false}))
	svc := NewCategoryService(f.opts)
	ctx := sessionCtx()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	created, err := svc.Create(ctx, model.CategoryRequest{Name: "  Health ", IsPremium: false})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)

	merged := MergeCategory(list, *created)
	require.Len(t, merged, 2)
	assert.Equal(t, "Health", merged[1].Name)
	assert.Len(t, list, 1, "input is not modified")

	calls := f.api.CallsTo(http.MethodPost, "/api/category/")
	require.Len(t, calls, 1)
	assert.Equal(t, "Health", calls[0].Body["name"])
	assert.Equal(t, "Bearer tok-1", calls[0].Auth)

	entries, total, err := f.audit.List(context.Background(), model.AuditListOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, model.AuditCreate, entries[0].Action)
	assert.Equal(t, "Ada Admin", entries[0].Actor)
	assert.Equal(t, "c2", entries[0].ResourceID)
}

func TestCategoryService_ValidationStopsBeforeAPI(t *testing.T) {
	f := newResourceFixture(t)
	svc := NewCategoryService(f.opts)

	_, err := svc.Create(sessionCtx(), model.CategoryRequest{Name: "   "})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "name", apperrors.GetField(err))
	assert.Empty(t, f.api.Calls())
}

func TestCategoryService_UpdateAndDelete(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("PUT /api/category/{id}", http.StatusOK, envelope(obj{"name": "Calm"}))
	f.api.JSON("DELETE /api/category/{id}", http.StatusOK, obj{"success": true, "message": "deleted"})
	f.api.JSON("GET /api/categories/{id}", http.StatusOK, envelope(obj{"id": "c1", "name": "Calm", "_count": obj{"posts": 3}}))
	svc := NewCategoryService(f.opts)
	ctx := sessionCtx()

	updated, err := svc.Update(ctx, "c1", model.CategoryRequest{Name: "Calm"})
	require.NoError(t, err)
	assert.Equal(t, "c1", updated.ID, "id is kept when the API omits it")

	got, err := svc.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got.Count)
	assert.Equal(t, 3, got.Count.Posts)

	require.NoError(t, svc.Delete(ctx, "c1"))
	assert.Len(t, f.api.CallsTo(http.MethodDelete, "/api/category/c1"), 1)
}

func TestCategoryService_APIErrorLeavesNoAudit(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("DELETE /api/category/{id}", http.StatusConflict, obj{"success": false, "message": "Category has posts"})
	svc := NewCategoryService(f.opts)

	err := svc.Delete(sessionCtx(), "c1")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "Category has posts", apperrors.UserMessage(err, "x"))

	_, total, _ := f.audit.List(context.Background(), model.AuditListOptions{})
	assert.Zero(t, total)
}
