package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wishara/admin-console/internal/domain/model"
)

// AffirmationService manages affirmations.
type AffirmationService struct {
	resource
}

// NewAffirmationService constructs a new AffirmationService.
func NewAffirmationService(opts ResourceOptions) *AffirmationService {
	return &AffirmationService{resource: newResource(opts, "affirmations")}
}

// List returns all affirmations, or those of one category when categoryID is set.
func (s *AffirmationService) List(ctx context.Context, categoryID string) ([]model.Affirmation, error) {
	path := "/affirmations"
	if categoryID != "" {
		path = "/affirmations/category/" + escape(categoryID)
	}
	var out []model.Affirmation
	if err := s.get(ctx, path, nil, "", &out); err != nil {
		return nil, fmt.Errorf("list affirmations: %w", err)
	}
	return out, nil
}

// GetByID returns one affirmation.
func (s *AffirmationService) GetByID(ctx context.Context, id string) (*model.Affirmation, error) {
	var out model.Affirmation
	if err := s.get(ctx, "/affirmations/"+escape(id), nil, "", &out); err != nil {
		return nil, fmt.Errorf("get affirmation: %w", err)
	}
	return &out, nil
}

// Create validates and creates an affirmation.
func (s *AffirmationService) Create(ctx context.Context, req model.AffirmationRequest) (*model.Affirmation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.Affirmation
	if err := s.send(ctx, http.MethodPost, "/affirmations", req, &out); err != nil {
		return nil, fmt.Errorf("create affirmation: %w", err)
	}
	s.record(ctx, model.AuditCreate, "affirmation", out.ID, "")
	return &out, nil
}

// Update validates and replaces an affirmation.
func (s *AffirmationService) Update(ctx context.Context, id string, req model.AffirmationRequest) (*model.Affirmation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out model.Affirmation
	if err := s.send(ctx, http.MethodPut, "/affirmations/"+escape(id), req, &out); err != nil {
		return nil, fmt.Errorf("update affirmation: %w", err)
	}
	s.record(ctx, model.AuditUpdate, "affirmation", id, "")
	return &out, nil
}

// Delete removes an affirmation.
func (s *AffirmationService) Delete(ctx context.Context, id string) error {
	if err := s.send(ctx, http.MethodDelete, "/affirmations/"+escape(id), nil, nil); err != nil {
		return fmt.Errorf("delete affirmation: %w", err)
	}
	s.record(ctx, model.AuditDelete, "affirmation", id, "")
	return nil
}
