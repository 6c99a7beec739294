package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wishara/admin-console/internal/domain/model"
)

// CategoryService manages post and affirmation categories.
type CategoryService struct {
	resource
}

// NewCategoryService constructs a new CategoryService.
func NewCategoryService(opts ResourceOptions) *CategoryService {
	return &CategoryService{resource: newResource(opts, "categories")}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := s.get(ctx, "/category/", nil, "", &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// GetByID returns one category.
func (s *CategoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var out model.Category
	if err := s.get(ctx, "/categories/"+escape(id), nil, "", &out); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &out, nil
}

// Create validates req and creates the category, returning the server's copy.
func (s *CategoryService) Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.Category
	if err := s.send(ctx, http.MethodPost, "/category/", req, &out); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.record(ctx, model.AuditCreate, "category", out.ID, out.Name)
	return &out, nil
}

// Update validates req and replaces the category.
func (s *CategoryService) Update(ctx context.Context, id string, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.Category
	if err := s.send(ctx, http.MethodPut, "/category/"+escape(id), req, &out); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if out.ID == "" {
		out.ID = id
	}
	s.record(ctx, model.AuditUpdate, "category", id, req.Name)
	return &out, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.send(ctx, http.MethodDelete, "/category/"+escape(id), nil, nil); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.record(ctx, model.AuditDelete, "category", id, "")
	return nil
}

// MergeCategory returns list with c replacing the entry of the same ID, or
// appended when it is new. The input slice is not modified.
func MergeCategory(list []model.Category, c model.Category) []model.Category {
	out := make([]model.Category, 0, len(list)+1)
	replaced := false
	for _, existing := range list {
		if existing.ID == c.ID {
			out = append(out, c)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, c)
	}
	return out
}
