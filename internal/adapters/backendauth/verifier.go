// Package backendauth verifies console logins against the content API.
package backendauth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/ports"
)

// Doer is the part of backend.Client the verifier needs.
type Doer interface {
	Do(ctx context.Context, req backend.Request, out any) error
}

// Verifier implements ports.CredentialVerifier with POST /auth/login.
type Verifier struct {
	api Doer
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// NewVerifier creates a Verifier over api.
func NewVerifier(api Doer) *Verifier {
	return &Verifier{api: api}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domainauth.User `json:"user"`
}

// Verify logs in and returns the token, the user and the token's expiry.
func (v *Verifier) Verify(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	creds = creds.Normalize()
	if creds.Identifier == "" || creds.Password == "" {
		return domainauth.Identity{}, ports.ErrInvalidCredentials
	}

	var resp loginResponse
	err := v.api.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   loginRequest(creds),
		Unwrap: backend.UnwrapData,
	}, &resp)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
				return domainauth.Identity{}, ports.ErrInvalidCredentials
			}
		}
		return domainauth.Identity{}, err
	}
	if resp.Token == "" {
		return domainauth.Identity{}, errors.New("login response carried no token")
	}

	return domainauth.Identity{
		Token:     resp.Token,
		User:      resp.User,
		ExpiresAt: TokenExpiry(resp.Token),
	}, nil
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// the console only uses it to bound the session. Zero when absent or not a JWT.
func TokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
