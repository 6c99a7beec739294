package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	apperrors "github.com/wishara/admin-console/internal/errors"
	"github.com/wishara/admin-console/internal/observability/metrics"
	"github.com/wishara/admin-console/internal/observability/statsd"
	"github.com/wishara/admin-console/internal/ports"
)

const defaultSessionTTL = 12 * time.Hour

// PushLifecycle is the notification side of a session: the device token
// registered for it and the manager refreshing that token.
type PushLifecycle interface {
	// Unregister removes the session's device token from the API.
	Unregister(ctx context.Context, sess domainauth.Session) error
	// Stop cancels the session's token manager, if any.
	Stop(sessionID string)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Verifier ports.CredentialVerifier
	Sessions ports.SessionStore
	Push     PushLifecycle // Optional
	Config   AuthServiceConfig
}

// AuthServiceConfig holds tunables and ambient dependencies.
type AuthServiceConfig struct {
	// SessionTTL applies when the backend token carries no expiry.
	SessionTTL time.Duration
	Logger     *slog.Logger
	Metrics    statsd.Sink
	Now        func() time.Time
}

// AuthService owns the admin session: login, logout, lookup and the
// teardown that follows an authorization failure from the API.
type AuthService struct {
	verifier ports.CredentialVerifier
	sessions ports.SessionStore
	push     PushLifecycle

	ttl     time.Duration
	logger  *slog.Logger
	metrics statsd.Sink
	now     func() time.Time

	teardowns singleflight.Group
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Verifier == nil {
		panic("CredentialVerifier is required")
	}
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	cfg := opts.Config
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = statsd.Noop{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AuthService{
		verifier: opts.Verifier,
		sessions: opts.Sessions,
		push:     opts.Push,
		ttl:      cfg.SessionTTL,
		logger:   cfg.Logger.With("component", "auth"),
		metrics:  cfg.Metrics,
		now:      cfg.Now,
	}
}

// SetPush installs the push lifecycle after construction; the token
// registry is built from the same backend client whose 401 hook calls back
// into this service.
func (s *AuthService) SetPush(p PushLifecycle) { s.push = p }

// Login verifies credentials and persists a new session.
// Rejected credentials return ports.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.Session, error) {
	creds = creds.Normalize()
	if creds.Identifier == "" || creds.Password == "" {
		return nil, ports.ErrInvalidCredentials
	}

	identity, err := s.verifier.Verify(ctx, creds)
	if err != nil {
		metrics.EmitAuth(s.metrics, "login", err)
		if errors.Is(err, ports.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	now := s.now().UTC()
	expires := identity.ExpiresAt
	if !expires.IsZero() && !expires.After(now) {
		// Clock skew with the API; let the API's own 401 end the session.
		s.logger.WarnContext(ctx, "backend token already expired, using session TTL",
			"user_id", identity.User.ID, "token_exp", expires)
		expires = time.Time{}
	}
	if expires.IsZero() {
		expires = now.Add(s.ttl)
	}
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		Token:     identity.Token,
		User:      identity.User,
		CreatedAt: now,
		ExpiresAt: expires.UTC(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		metrics.EmitAuth(s.metrics, "login", err)
		return nil, fmt.Errorf("save session: %w", err)
	}
	metrics.EmitAuth(s.metrics, "login", nil)
	s.logger.InfoContext(ctx, "admin signed in", "user_id", sess.User.ID, "is_admin", sess.User.IsAdmin)
	return &sess, nil
}

// GetSession retrieves a live session by ID. Expired sessions are deleted
// and reported as not found.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, ports.ErrSessionNotFound
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		if s.push != nil {
			s.push.Stop(sessionID)
		}
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, ports.ErrSessionNotFound, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errors.Join(errSessionExpired, ports.ErrSessionNotFound)
	}
	return &sess, nil
}

// CurrentUser returns the user stored in the session, or nil when signed out.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domainauth.User, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := sess.User
	return &u, nil
}

// IsAuthenticated reports whether sessionID names a live session.
func (s *AuthService) IsAuthenticated(ctx context.Context, sessionID string) bool {
	sess, err := s.GetSession(ctx, sessionID)
	return err == nil && sess != nil
}

// UpdateSessionUser replaces the user record kept in the session, e.g. after
// a profile update.
func (s *AuthService) UpdateSessionUser(ctx context.Context, sessionID string, user domainauth.User) error {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	// The API never returns the admin flag from the profile endpoint.
	user.IsAdmin = sess.User.IsAdmin
	if user.ID == "" {
		user.ID = sess.User.ID
	}
	sess.User = user
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout signs the session out. The push side stops the token manager,
// lets a registration in flight finish, and removes the device token from
// the API (best effort); then the session is deleted. Logging out an
// unknown session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		if s.push != nil {
			s.push.Stop(sessionID)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	if s.push != nil {
		if err := s.push.Unregister(ctx, sess); err != nil {
			s.logger.WarnContext(ctx, "failed to remove notification token on logout",
				"error", err, "error_code", apperrors.GetCode(err))
		}
		s.push.Stop(sessionID)
	}

	err = s.sessions.Delete(ctx, sessionID)
	metrics.EmitAuth(s.metrics, "logout", err)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.InfoContext(ctx, "admin signed out", "user_id", sess.User.ID)
	return nil
}

// Teardown ends a session the API no longer accepts. The token manager is
// always stopped, even when the session already expired or was revoked
// elsewhere. Concurrent calls for the same session share one run, and a
// stored session is deleted once.
func (s *AuthService) Teardown(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if s.push != nil {
		s.push.Stop(sessionID)
	}
	_, _, _ = s.teardowns.Do(sessionID, func() (any, error) {
		if _, err := s.sessions.Get(ctx, sessionID); err != nil {
			return nil, nil
		}
		err := s.sessions.Delete(ctx, sessionID)
		metrics.EmitAuth(s.metrics, "teardown", err)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to delete rejected session", "error", err)
			return nil, err
		}
		s.logger.InfoContext(ctx, "session torn down after api rejected its token")
		return nil, nil
	})
}

// Revoke deletes a session by id without contacting the API.
func (s *AuthService) Revoke(ctx context.Context, sessionID string) error {
	if s.push != nil {
		s.push.Stop(sessionID)
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	metrics.EmitAuth(s.metrics, "revoke", nil)
	return nil
}
