package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/domain/model"
)

// PostService moderates feed posts and their interactions.
type PostService struct {
	resource
}

// NewPostService constructs a new PostService.
func NewPostService(opts ResourceOptions) *PostService {
	return &PostService{resource: newResource(opts, "posts")}
}

// ListAll returns every post visible to administrators.
func (s *PostService) ListAll(ctx context.Context) ([]model.Post, error) {
	var out []model.Post
	if err := s.get(ctx, "/post/admin/all", nil, backend.UnwrapPosts, &out); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// List filters and paginates the admin post list locally.
func (s *PostService) List(ctx context.Context, f model.PostFilter, page, limit int) (model.Page[model.Post], error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return model.Page[model.Post]{}, err
	}
	return model.Paginate(model.FilterPosts(all, f), page, limit), nil
}

// GetByID returns one post.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var out model.Post
	if err := s.get(ctx, "/post/"+escape(id), nil, "", &out); err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &out, nil
}

// Create validates and creates a post authored by the signed-in admin.
func (s *PostService) Create(ctx context.Context, req model.PostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.Post
	if err := s.send(ctx, http.MethodPost, "/post/create", req, &out); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.record(ctx, model.AuditCreate, "post", out.ID, string(req.PostType))
	return &out, nil
}

// Update validates and replaces a post.
func (s *PostService) Update(ctx context.Context, id string, req model.PostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.Post
	if err := s.send(ctx, http.MethodPut, "/post/"+escape(id), req, &out); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.record(ctx, model.AuditUpdate, "post", id, "")
	return &out, nil
}

// Delete removes a post through the admin endpoint, which may delete posts
// of any author.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.send(ctx, http.MethodDelete, "/posts/admin/"+escape(id), nil, nil); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.record(ctx, model.AuditDelete, "post", id, "")
	return nil
}

// DeleteOwn removes a post through the author endpoint.
func (s *PostService) DeleteOwn(ctx context.Context, id string) error {
	if err := s.send(ctx, http.MethodDelete, "/post/"+escape(id), nil, nil); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.record(ctx, model.AuditDelete, "post", id, "own")
	return nil
}

// Comments lists a post's comments.
func (s *PostService) Comments(ctx context.Context, postID string) ([]model.Comment, error) {
	var out []model.Comment
	if err := s.get(ctx, "/interactions/posts/"+escape(postID)+"/comments", nil, "not_null(data.comments, data, @)", &out); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return out, nil
}

// Likes returns a post's like count. The API answers either a count or the
// list of likes.
func (s *PostService) Likes(ctx context.Context, postID string) (model.LikeSummary, error) {
	var raw any
	if err := s.get(ctx, "/interactions/posts/"+escape(postID)+"/likes", nil, "", &raw); err != nil {
		return model.LikeSummary{}, fmt.Errorf("list likes: %w", err)
	}
	switch v := raw.(type) {
	case []any:
		return model.LikeSummary{Count: len(v)}, nil
	case map[string]any:
		if n, ok := v["count"].(float64); ok {
			return model.LikeSummary{Count: int(n)}, nil
		}
		if likes, ok := v["likes"].([]any); ok {
			return model.LikeSummary{Count: len(likes)}, nil
		}
	case float64:
		return model.LikeSummary{Count: int(v)}, nil
	}
	return model.LikeSummary{}, nil
}

// DeleteComment removes a comment.
func (s *PostService) DeleteComment(ctx context.Context, commentID string) error {
	if err := s.send(ctx, http.MethodDelete, "/interactions/comments/"+escape(commentID), nil, nil); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.record(ctx, model.AuditDelete, "comment", commentID, "")
	return nil
}
