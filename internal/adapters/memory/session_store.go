// Package memory provides in-process adapters used when Redis or Postgres
// are not configured, typically in development.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/domain/push"
	"github.com/wishara/admin-console/internal/ports"
)

// SessionStore is a mutex-guarded map of sessions. Expired entries are
// dropped lazily on read.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
	now      func() time.Time
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainauth.Session), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.Expired(s.now()) {
		return errors.New("session is expired")
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len reports how many sessions are held, including not-yet-collected expired ones.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ReportStore keeps browser push reports in memory.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]push.BrowserReport
}

var _ ports.BrowserReportStore = (*ReportStore)(nil)

// NewReportStore creates an empty report store.
func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]push.BrowserReport)}
}

func (s *ReportStore) SaveReport(_ context.Context, sessionID string, r push.BrowserReport) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	s.mu.Lock()
	s.reports[sessionID] = r
	s.mu.Unlock()
	return nil
}

func (s *ReportStore) GetReport(_ context.Context, sessionID string) (push.BrowserReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports[sessionID], nil
}

func (s *ReportStore) DeleteReport(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.reports, sessionID)
	s.mu.Unlock()
	return nil
}
