package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/wishara/admin-console/internal/domain/auth"
)

var (
	// ErrInvalidCredentials is returned by a CredentialVerifier when the
	// identifier/password pair is rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotFound is returned by a SessionStore for unknown or expired ids.
	ErrSessionNotFound = errors.New("session not found")
)

// CredentialVerifier exchanges login credentials for a backend identity.
type CredentialVerifier interface {
	Verify(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
