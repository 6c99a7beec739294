package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
)

// CommunityService manages communities, their members and their posts.
type CommunityService struct {
	resource
}

// NewCommunityService constructs a new CommunityService.
func NewCommunityService(opts ResourceOptions) *CommunityService {
	return &CommunityService{resource: newResource(opts, "communities")}
}

// List returns all communities.
func (s *CommunityService) List(ctx context.Context) ([]model.Community, error) {
	var out []model.Community
	if err := s.get(ctx, "/community", nil, "not_null(data.communities, data, @)", &out); err != nil {
		return nil, fmt.Errorf("list communities: %w", err)
	}
	return out, nil
}

// GetByID returns one community.
func (s *CommunityService) GetByID(ctx context.Context, id string) (*model.Community, error) {
	var out model.Community
	if err := s.get(ctx, "/community/"+escape(id), nil, "", &out); err != nil {
		return nil, fmt.Errorf("get community: %w", err)
	}
	return &out, nil
}

// Create validates and creates a community.
func (s *CommunityService) Create(ctx context.Context, req model.CommunityRequest) (*model.Community, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.Community
	if err := s.send(ctx, http.MethodPost, "/community", req, &out); err != nil {
		return nil, fmt.Errorf("create community: %w", err)
	}
	s.record(ctx, model.AuditCreate, "community", out.ID, out.Name)
	return &out, nil
}

// Update validates and replaces a community.
func (s *CommunityService) Update(ctx context.Context, id string, req model.CommunityRequest) (*model.Community, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.Community
	if err := s.send(ctx, http.MethodPut, "/community/"+escape(id), req, &out); err != nil {
		return nil, fmt.Errorf("update community: %w", err)
	}
	s.record(ctx, model.AuditUpdate, "community", id, req.Name)
	return &out, nil
}

// Delete removes a community.
func (s *CommunityService) Delete(ctx context.Context, id string) error {
	if err := s.send(ctx, http.MethodDelete, "/community/"+escape(id), nil, nil); err != nil {
		return fmt.Errorf("delete community: %w", err)
	}
	s.record(ctx, model.AuditDelete, "community", id, "")
	return nil
}

// Members lists a community's members.
func (s *CommunityService) Members(ctx context.Context, id string) ([]model.CommunityMember, error) {
	var out []model.CommunityMember
	if err := s.get(ctx, "/community/"+escape(id)+"/members", nil, "not_null(data.members, data, @)", &out); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return out, nil
}

// RemoveMember removes userID from the community.
func (s *CommunityService) RemoveMember(ctx context.Context, id, userID string) error {
	if err := s.send(ctx, http.MethodDelete, "/community/"+escape(id)+"/members/"+escape(userID), nil, nil); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	s.record(ctx, model.AuditDelete, "community_member", id, userID)
	return nil
}

// UpdateMemberRole changes userID's role inside the community.
func (s *CommunityService) UpdateMemberRole(ctx context.Context, id, userID, role string) error {
	r, ok := model.ParseMemberRole(role)
	if !ok {
		return apperrors.ValidationField("role", "Role must be ADMIN, MODERATOR or MEMBER")
	}
	body := struct {
		Role model.MemberRole `json:"role"`
	}{r}
	if err := s.send(ctx, http.MethodPut, "/community/"+escape(id)+"/members/"+escape(userID)+"/role", body, nil); err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	s.record(ctx, model.AuditRoleChange, "community_member", id, userID+"="+string(r))
	return nil
}

// Posts lists a community's feed.
func (s *CommunityService) Posts(ctx context.Context, id string) ([]model.CommunityPost, error) {
	var out []model.CommunityPost
	if err := s.get(ctx, "/community/"+escape(id)+"/posts", nil, backend.UnwrapPosts, &out); err != nil {
		return nil, fmt.Errorf("list community posts: %w", err)
	}
	return out, nil
}

// DeletePost removes a community post.
func (s *CommunityService) DeletePost(ctx context.Context, postID string) error {
	if err := s.send(ctx, http.MethodDelete, "/community/posts/"+escape(postID), nil, nil); err != nil {
		return fmt.Errorf("delete community post: %w", err)
	}
	s.record(ctx, model.AuditDelete, "community_post", postID, "")
	return nil
}
