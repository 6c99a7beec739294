package pushtoken

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wishara/admin-console/internal/backend"
	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/domain/push"
	"github.com/wishara/admin-console/internal/ports"
)

// DefaultStopWait bounds how long Unregister waits for an in-flight
// registration before removing the token.
const DefaultStopWait = 5 * time.Second

// SourceFactory builds the token source for one session.
type SourceFactory func(sessionID string) ports.TokenSource

// SessionReader looks sessions up. An error wrapping ports.ErrSessionNotFound
// means the session is gone.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// RegistryOptions groups dependencies for Registry.
type RegistryOptions struct {
	Reports   ports.BrowserReportStore
	Registrar ports.TokenRegistrar
	Sources   SourceFactory
	// Sessions is consulted before every register and refresh cycle; a
	// manager whose session is gone exits. Optional.
	Sessions  SessionReader
	// StopWait defaults to DefaultStopWait.
	StopWait  time.Duration
	Config    Config
}

// Registry owns one Manager per live session.
type Registry struct {
	reports   ports.BrowserReportStore
	registrar ports.TokenRegistrar
	sources   SourceFactory
	sessions  SessionReader
	stopWait  time.Duration
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	managers map[string]*Manager
}

// NewRegistry constructs a new Registry.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Reports == nil {
		panic("BrowserReportStore is required")
	}
	if opts.Registrar == nil {
		panic("TokenRegistrar is required")
	}
	if opts.Sources == nil {
		panic("SourceFactory is required")
	}
	cfg := opts.Config.withDefaults()
	if opts.StopWait <= 0 {
		opts.StopWait = DefaultStopWait
	}
	return &Registry{
		reports:   opts.Reports,
		registrar: opts.Registrar,
		sources:   opts.Sources,
		sessions:  opts.Sessions,
		stopWait:  opts.StopWait,
		cfg:       cfg,
		logger:    cfg.Logger.With("component", "pushtoken_registry"),
		now:       time.Now,
		managers:  make(map[string]*Manager),
	}
}

// Ensure returns the running manager for sess, starting one if needed.
func (r *Registry) Ensure(ctx context.Context, sess domainauth.Session) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.managers[sess.ID]; ok {
		return m
	}
	m := NewManager(sess, r.sources(sess.ID), r.registrar, r.cfg)
	m.alive = func(ctx context.Context) bool { return r.sessionLive(ctx, sess.ID) }
	m.onExit = r.forget
	r.managers[sess.ID] = m
	m.Start(ctx)
	return m
}

func (r *Registry) sessionLive(ctx context.Context, sessionID string) bool {
	if r.sessions == nil {
		return true
	}
	sess, err := r.sessions.GetSession(ctx, sessionID)
	switch {
	case errors.Is(err, ports.ErrSessionNotFound):
		return false
	case err != nil:
		// Keep going on a lookup failure; the next cycle checks again.
		r.logger.WarnContext(ctx, "session lookup failed", "error", err)
		return true
	}
	return sess != nil && !sess.Expired(r.now())
}

// forget drops a manager whose loop exited on its own, together with the
// browser report of its session.
func (r *Registry) forget(m *Manager) {
	r.mu.Lock()
	current, ok := r.managers[m.sessionID]
	owned := ok && current == m
	if owned {
		delete(r.managers, m.sessionID)
	}
	r.mu.Unlock()
	if !owned {
		return
	}
	if err := r.reports.DeleteReport(context.Background(), m.sessionID); err != nil {
		r.logger.Warn("failed to delete push report", "error", err)
	}
}

// Get returns the manager of sessionID, if one is running.
func (r *Registry) Get(sessionID string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[sessionID]
	return m, ok
}

// Report stores what the browser said about permission and its token, and
// nudges the session's manager to act on it.
func (r *Registry) Report(ctx context.Context, sess domainauth.Session, permission push.Permission, token string) error {
	prev, err := r.reports.GetReport(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("read push report: %w", err)
	}
	next := push.BrowserReport{Permission: permission, Token: token, UpdatedAt: r.now().UTC()}
	if permission == "" {
		next.Permission = prev.Permission
	}
	if token == "" && next.Permission == push.PermissionGranted {
		next.Token = prev.Token
	}
	if next.Permission != push.PermissionGranted {
		next.Token = ""
	}
	if err := r.reports.SaveReport(ctx, sess.ID, next); err != nil {
		return fmt.Errorf("save push report: %w", err)
	}
	r.Ensure(ctx, sess).Wake()
	return nil
}

// Snapshot returns the state of sessionID's manager; sessions without one
// are Unregistered.
func (r *Registry) Snapshot(sessionID string) push.Snapshot {
	if m, ok := r.Get(sessionID); ok {
		return m.Snapshot()
	}
	return push.Snapshot{State: push.StateUnregistered}
}

// Stop stops and forgets sessionID's manager and drops its browser report.
// Stopping an unknown session is a no-op.
func (r *Registry) Stop(sessionID string) {
	r.mu.Lock()
	m, ok := r.managers[sessionID]
	delete(r.managers, sessionID)
	r.mu.Unlock()
	if ok {
		m.Stop()
	}
	if err := r.reports.DeleteReport(context.Background(), sessionID); err != nil {
		r.logger.Warn("failed to delete push report", "error", err)
	}
}

// Unregister removes the session's device token from the API. The running
// manager is stopped first and given up to StopWait to finish a registration
// in flight, so the removal is the last token call the API sees. The token
// is taken from the manager, or from the last browser report.
func (r *Registry) Unregister(ctx context.Context, sess domainauth.Session) error {
	rep, err := r.reports.GetReport(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("read push report: %w", err)
	}
	token := rep.Token
	if m, ok := r.Get(sess.ID); ok {
		m.Stop()
		wait := time.NewTimer(r.stopWait)
		select {
		case <-m.Done():
		case <-wait.C:
			r.logger.WarnContext(ctx, "token manager still busy, removing token anyway")
		case <-ctx.Done():
		}
		wait.Stop()
		if t := m.Token(); t != "" {
			token = t
		}
	}
	if token == "" {
		return nil
	}
	if err := r.registrar.RemoveToken(backend.WithSession(ctx, sess.ID, sess.Token), token); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Shutdown stops every manager and waits for their loops to exit or ctx to end.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	managers := r.managers
	r.managers = make(map[string]*Manager)
	r.mu.Unlock()
	for _, m := range managers {
		m.Stop()
	}
	for _, m := range managers {
		select {
		case <-m.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Len returns the number of running managers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}
