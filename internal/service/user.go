package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
)

// UserService administers platform accounts.
type UserService struct {
	resource
}

// NewUserService constructs a new UserService.
func NewUserService(opts ResourceOptions) *UserService {
	return &UserService{resource: newResource(opts, "users")}
}

// List returns one server-side page of users.
func (s *UserService) List(ctx context.Context, opts model.UserListOptions) (model.Page[model.AdminUser], error) {
	var out struct {
		Data       []model.AdminUser `json:"data"`
		Pagination model.Pagination  `json:"pagination"`
	}
	if err := s.get(ctx, "/admin/users", opts.Query(), backend.UnwrapWhole, &out); err != nil {
		return model.Page[model.AdminUser]{}, fmt.Errorf("list users: %w", err)
	}
	p := out.Pagination
	if p.Page == 0 {
		p.Page = max(opts.Page, 1)
	}
	if p.TotalPages == 0 {
		p.TotalPages = 1
	}
	return model.Page[model.AdminUser]{Items: out.Data, Pagination: p}, nil
}

// Statistics returns the aggregate user counts.
func (s *UserService) Statistics(ctx context.Context) (*model.UserStatistics, error) {
	var out model.UserStatistics
	if err := s.get(ctx, "/admin/users/statistics", nil, "", &out); err != nil {
		return nil, fmt.Errorf("user statistics: %w", err)
	}
	return &out, nil
}

// GetByID returns one user.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	var out model.AdminUser
	if err := s.get(ctx, "/admin/users/"+escape(id), nil, "", &out); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &out, nil
}

// Create validates and creates a user.
func (s *UserService) Create(ctx context.Context, req model.UserRequest) (*model.AdminUser, error) {
	if err := req.Validate(true); err != nil {
		return nil, err
	}
	var out model.AdminUser
	if err := s.send(ctx, http.MethodPost, "/admin/users", req, &out); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.record(ctx, model.AuditCreate, "user", out.ID, req.Email)
	return &out, nil
}

// Update validates and applies a partial update.
func (s *UserService) Update(ctx context.Context, id string, req model.UserRequest) (*model.AdminUser, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}
	var out model.AdminUser
	if err := s.send(ctx, http.MethodPut, "/admin/users/"+escape(id), req, &out); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.record(ctx, model.AuditUpdate, "user", id, "")
	return &out, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.send(ctx, http.MethodDelete, "/admin/users/"+escape(id), nil, nil); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.record(ctx, model.AuditDelete, "user", id, "")
	return nil
}

// ToggleAdmin flips the user's admin flag and returns the updated record.
func (s *UserService) ToggleAdmin(ctx context.Context, id string) (*model.AdminUser, error) {
	var out model.AdminUser
	if err := s.send(ctx, http.MethodPatch, "/admin/users/"+escape(id)+"/toggle-admin", nil, &out); err != nil {
		return nil, fmt.Errorf("toggle admin: %w", err)
	}
	s.record(ctx, model.AuditToggleAdmin, "user", id, fmt.Sprintf("isAdmin=%t", out.IsAdmin))
	return &out, nil
}

// Activity returns the user's recent posts, comments and affirmations.
func (s *UserService) Activity(ctx context.Context, id string) (*model.UserActivity, error) {
	var out model.UserActivity
	if err := s.get(ctx, "/admin/users/"+escape(id)+"/activity", nil, "", &out); err != nil {
		return nil, fmt.Errorf("user activity: %w", err)
	}
	return &out, nil
}

// BulkUpdate applies req.UpdateData to every listed user.
func (s *UserService) BulkUpdate(ctx context.Context, req model.BulkUserUpdate) (*model.BulkResult, error) {
	if len(req.UserIDs) == 0 {
		return nil, apperrors.ValidationField("userIds", "Select at least one user")
	}
	if err := req.UpdateData.Validate(false); err != nil {
		return nil, err
	}
	var out model.BulkResult
	if err := s.api.Do(ctx, backend.Request{Method: http.MethodPost, Path: "/admin/users/bulk-update", Body: req, Unwrap: backend.UnwrapWhole}, &out); err != nil {
		return nil, fmt.Errorf("bulk update users: %w", err)
	}
	s.record(ctx, model.AuditBulkUpdate, "user", "", fmt.Sprintf("%d users", len(req.UserIDs)))
	return &out, nil
}

// BulkDelete deletes every listed user.
func (s *UserService) BulkDelete(ctx context.Context, req model.BulkUserDelete) (*model.BulkResult, error) {
	if len(req.UserIDs) == 0 {
		return nil, apperrors.ValidationField("userIds", "Select at least one user")
	}
	var out model.BulkResult
	if err := s.api.Do(ctx, backend.Request{Method: http.MethodPost, Path: "/admin/users/bulk-delete", Body: req, Unwrap: backend.UnwrapWhole}, &out); err != nil {
		return nil, fmt.Errorf("bulk delete users: %w", err)
	}
	s.record(ctx, model.AuditBulkDelete, "user", "", fmt.Sprintf("%d users", len(req.UserIDs)))
	return &out, nil
}

// Profile returns the signed-in admin's own record.
func (s *UserService) Profile(ctx context.Context) (*model.AdminUser, error) {
	var out model.AdminUser
	if err := s.get(ctx, "/user/profile", nil, "not_null(data.user, data, @)", &out); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &out, nil
}

// UpdateProfile validates and saves the signed-in admin's profile.
func (s *UserService) UpdateProfile(ctx context.Context, req model.ProfileRequest) (*model.AdminUser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.AdminUser
	if err := s.api.Do(ctx, backend.Request{
		Method: http.MethodPut,
		Path:   "/user/profile",
		Body:   req,
		Unwrap: "not_null(data.user, data, @)",
	}, &out); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.record(ctx, model.AuditUpdate, "profile", out.ID, "")
	return &out, nil
}

// SessionUser converts an API user record into the session's user.
func SessionUser(u model.AdminUser) domainauth.User {
	return domainauth.User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}
