package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/domain/model"
)

func TestPostService_ListFiltersAndPaginates(t *testing.T) {
	f := newResourceFixture(t)
	posts := []obj{
		{"id": "p1", "content": "Morning gratitude", "postType": "TEXT", "privacy": "PUBLIC"},
		{"id": "p2", "content": "Sunset", "postType": "IMAGE", "mediaUrl": "https://x/y.jpg", "privacy": "PUBLIC"},
		{"id": "p3", "content": "Gratitude jar", "postType": "TEXT", "privacy": "PRIVATE"},
	}
	f.api.JSON("GET /api/post/admin/all", http.StatusOK, envelope(obj{"posts": posts}))
	svc := NewPostService(f.opts)

	page, err := svc.List(sessionCtx(), model.PostFilter{Query: "gratitude", PostType: model.PostTypeText}, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p1", page.Items[0].ID)
	assert.Equal(t, 2, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext())
}

func TestPostService_CreateDefaultsAndDelete(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("POST /api/post/create", http.StatusCreated, envelope(obj{"id": "p9", "content": "hi", "postType": "TEXT"}))
	f.api.JSON("DELETE /api/posts/admin/{id}", http.StatusOK, obj{"success": true})
	svc := NewPostService(f.opts)
	ctx := sessionCtx()

	created, err := svc.Create(ctx, model.PostRequest{Content: "hi", Tags: model.ParseTags("a, b, a")})
	require.NoError(t, err)
	assert.Equal(t, "p9", created.ID)

	body := f.api.CallsTo(http.MethodPost, "/api/post/create")[0].Body
	assert.Equal(t, "TEXT", body["postType"])
	assert.Equal(t, "PUBLIC", body["privacy"])
	assert.Equal(t, []any{"a", "b"}, body["tags"])

	require.NoError(t, svc.Delete(ctx, "p9"))
	assert.Len(t, f.api.CallsTo(http.MethodDelete, "/api/posts/admin/p9"), 1)
}

func TestPostService_CommentsAndLikes(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("GET /api/interactions/posts/p1/comments", http.StatusOK,
		envelope(obj{"comments": []obj{{"id": "cm1", "content": "nice"}}}))
	f.api.JSON("GET /api/interactions/posts/p1/likes", http.StatusOK, envelope([]obj{{"id": "l1"}, {"id": "l2"}}))
	f.api.JSON("GET /api/interactions/posts/p2/likes", http.StatusOK, envelope(obj{"count": 7}))
	f.api.JSON("DELETE /api/interactions/comments/{id}", http.StatusOK, obj{"success": true})
	svc := NewPostService(f.opts)
	ctx := sessionCtx()

	comments, err := svc.Comments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice", comments[0].Content)

	likes, err := svc.Likes(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, likes.Count)

	likes, err = svc.Likes(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 7, likes.Count)

	require.NoError(t, svc.DeleteComment(ctx, "cm1"))
}
