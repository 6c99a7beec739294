// Package pushtoken drives the notification token lifecycle of each admin
// session: obtain permission and a device token, register it with the API,
// and periodically validate and refresh it.
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
	"github.com/wishara/admin-console/internal/observability/metrics"
	"github.com/wishara/admin-console/internal/observability/statsd"
	"github.com/wishara/admin-console/internal/ports"
)

const (
	DefaultRetryDelay      = 5 * time.Second
	DefaultRefreshInterval = time.Hour
)

// Config holds manager tunables and ambient dependencies.
type Config struct {
	RetryDelay      time.Duration
	RefreshInterval time.Duration
	Logger          *slog.Logger
	Metrics         statsd.Sink
}

func (c Config) withDefaults() Config {
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Metrics == nil {
		c.Metrics = statsd.Noop{}
	}
	return c
}

// Manager runs the token lifecycle for exactly one session. It is started
// once and never restarted: a new session gets a new Manager.
type Manager struct {
	sessionID string
	bearer    string
	source    ports.TokenSource
	registrar ports.TokenRegistrar
	cfg       Config
	logger    *slog.Logger

	mu       sync.Mutex
	state    push.State
	token    string
	lastErr  string
	attempts int

	wake    chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool

	// alive reports whether the session still exists; nil means always.
	alive func(ctx context.Context) bool
	// onExit runs when the loop returns, before Done is closed.
	onExit func(m *Manager)
}

var errSessionEnded = errors.New("session ended")

// NewManager binds a manager to sess.
func NewManager(sess domainauth.Session, source ports.TokenSource, registrar ports.TokenRegistrar, cfg Config) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		sessionID: sess.ID,
		bearer:    sess.Token,
		source:    source,
		registrar: registrar,
		cfg:       cfg,
		logger:    cfg.Logger.With("component", "pushtoken"),
		state:     push.StateUnregistered,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// SessionID is the session this manager belongs to.
func (m *Manager) SessionID() string { return m.sessionID }

// Start launches the lifecycle loop. Calling Start again, or after Stop, does nothing.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.stopped {
		return
	}
	m.started = true
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	go m.run(runCtx)
}

// Stop cancels the retry and refresh timers. An API call already in flight
// runs to completion (bounded by the client timeout) so the backend never
// sees it land after a later removal. Stop does not wait for it, so it is
// safe to call from code running on behalf of that call; use Done to wait.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.stopped = true
	if m.cancel != nil {
		m.cancel()
	} else {
		close(m.done)
	}
}

// Done is closed once the loop has exited after Stop.
func (m *Manager) Done() <-chan struct{} { return m.done }

// Wake cuts a pending retry wait short, e.g. after the browser reported a
// new permission or token.
func (m *Manager) Wake() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Snapshot returns the observable state.
func (m *Manager) Snapshot() push.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return push.Snapshot{
		State:       m.state,
		TokenSuffix: push.TokenSuffix(m.token),
		LastError:   m.lastErr,
		Attempts:    m.attempts,
	}
}

// Token returns the device token currently registered or being registered.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// apiContext detaches API calls from Stop; see Stop.
func (m *Manager) apiContext(ctx context.Context) context.Context {
	return backend.WithSession(context.WithoutCancel(ctx), m.sessionID, m.bearer)
}

func (m *Manager) sessionLive(ctx context.Context) bool {
	return m.alive == nil || m.alive(ctx)
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)
	if m.onExit != nil {
		defer m.onExit(m)
	}
	for {
		if !m.sessionLive(ctx) {
			m.logger.InfoContext(ctx, "session ended, stopping notification token manager")
			return
		}
		err := m.register(ctx)
		if err == nil {
			err = m.refreshLoop(ctx)
		}
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, errSessionEnded) {
			m.logger.InfoContext(ctx, "session ended, stopping notification token manager")
			return
		}
		m.fail(ctx, err)
		if !m.sleep(ctx, m.cfg.RetryDelay) {
			return
		}
	}
}

// refreshLoop validates the registered token every RefreshInterval and
// returns the first failure.
func (m *Manager) refreshLoop(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !m.sessionLive(ctx) {
				return errSessionEnded
			}
			if err := m.refresh(ctx); err != nil {
				return err
			}
		}
	}
}

// sleep waits d or until Wake is called. It reports false when ctx was canceled.
func (m *Manager) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	case <-m.wake:
		return true
	}
}

func (m *Manager) register(ctx context.Context) error {
	m.mu.Lock()
	m.attempts++
	m.mu.Unlock()

	if err := m.transition(push.StatePermissionRequested); err != nil {
		return err
	}
	if _, err := m.source.RequestPermission(ctx); err != nil {
		return fmt.Errorf("request permission: %w", err)
	}
	token, err := m.source.Token(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	return m.registerToken(ctx, token)
}

func (m *Manager) registerToken(ctx context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	if err := m.transition(push.StateTokenObtained); err != nil {
		return err
	}
	if err := m.registrar.RegisterToken(m.apiContext(ctx), token); err != nil {
		return fmt.Errorf("register token: %w", err)
	}
	if err := m.transition(push.StateRegistered); err != nil {
		return err
	}
	m.mu.Lock()
	m.lastErr = ""
	m.mu.Unlock()
	m.logger.InfoContext(ctx, "notification token registered", "token", push.TokenSuffix(token))
	return nil
}

// refresh re-registers when the API no longer accepts the token or the
// provider hands out a different one.
func (m *Manager) refresh(ctx context.Context) error {
	current := m.Token()
	v, err := m.registrar.ValidateToken(m.apiContext(ctx), current)
	if err != nil {
		return fmt.Errorf("validate token: %w", err)
	}
	latest, err := m.source.Token(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	if v.Valid && latest == current {
		return nil
	}
	m.logger.InfoContext(ctx, "refreshing notification token", "valid", v.Valid, "changed", latest != current)
	return m.registerToken(ctx, latest)
}

func (m *Manager) fail(ctx context.Context, err error) {
	m.mu.Lock()
	m.lastErr = err.Error()
	m.mu.Unlock()
	_ = m.transition(push.StateUnregistered)

	level := slog.LevelWarn
	if errors.Is(err, ports.ErrPermissionPending) || errors.Is(err, ports.ErrNoToken) {
		level = slog.LevelDebug
	}
	m.logger.Log(ctx, level, "notification token setup failed, will retry",
		"error", err, "retry_in", m.cfg.RetryDelay)
}

func (m *Manager) transition(to push.State) error {
	m.mu.Lock()
	from := m.state
	if !push.CanTransition(from, to) {
		m.mu.Unlock()
		return fmt.Errorf("illegal token state transition %s -> %s", from, to)
	}
	m.state = to
	m.mu.Unlock()
	if from != to {
		metrics.EmitPushTransition(m.cfg.Metrics, string(from), string(to))
	}
	return nil
}
