package fcm

import (
	"context"
	"errors"
	"net/http"

	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/ports"
)

// Doer is the part of backend.Client the registrar needs.
type Doer interface {
	Do(ctx context.Context, req backend.Request, out any) error
}

// APIRegistrar implements ports.TokenRegistrar over the content API.
type APIRegistrar struct {
	api Doer
}

var _ ports.TokenRegistrar = (*APIRegistrar)(nil)

// NewAPIRegistrar creates an APIRegistrar.
func NewAPIRegistrar(api Doer) *APIRegistrar { return &APIRegistrar{api: api} }

type tokenBody struct {
	Token string `json:"token"`
}

// RegisterToken stores the device token for the session's user.
func (r *APIRegistrar) RegisterToken(ctx context.Context, token string) error {
	return r.api.Do(ctx, backend.Request{Method: http.MethodPost, Path: "/notifications/token", Body: tokenBody{token}}, nil)
}

// ValidateToken asks the API whether token is still the one it holds.
// A 2xx answer without an explicit valid flag counts as valid; a 4xx other
// than 401 counts as invalid rather than as a failure.
func (r *APIRegistrar) ValidateToken(ctx context.Context, token string) (model.TokenValidation, error) {
	var out struct {
		Valid *bool  `json:"valid"`
		Token string `json:"token"`
	}
	err := r.api.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   "/notifications/validate-token",
		Body:   tokenBody{token},
	}, &out)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return model.TokenValidation{Valid: false}, nil
		}
		return model.TokenValidation{}, err
	}
	valid := out.Valid == nil || *out.Valid
	return model.TokenValidation{Valid: valid, Token: out.Token}, nil
}

// RemoveToken detaches the device token from the session's user.
func (r *APIRegistrar) RemoveToken(ctx context.Context, token string) error {
	return r.api.Do(ctx, backend.Request{Method: http.MethodPost, Path: "/notifications/token/remove", Body: tokenBody{token}}, nil)
}
