// Package fcm adapts Firebase Cloud Messaging as seen by the console: the
// browser reports permission and its messaging token, and the content API
// stores and validates tokens.
package fcm

import (
	"context"
	"fmt"

	"github.com/wishara/admin-console/internal/domain/push"
	"github.com/wishara/admin-console/internal/ports"
)

// BrowserSource is a ports.TokenSource for one session, backed by the
// reports the browser script posts to the console.
type BrowserSource struct {
	sessionID string
	reports   ports.BrowserReportStore
}

var _ ports.TokenSource = (*BrowserSource)(nil)

// NewBrowserSource binds a source to sessionID.
func NewBrowserSource(sessionID string, reports ports.BrowserReportStore) *BrowserSource {
	return &BrowserSource{sessionID: sessionID, reports: reports}
}

// RequestPermission returns the reported permission. The prompt itself is
// shown by the browser; until it reports "granted" this fails so the
// manager retries.
func (s *BrowserSource) RequestPermission(ctx context.Context) (push.Permission, error) {
	r, err := s.reports.GetReport(ctx, s.sessionID)
	if err != nil {
		return "", fmt.Errorf("read push report: %w", err)
	}
	switch r.Permission {
	case push.PermissionGranted:
		return r.Permission, nil
	case push.PermissionDenied:
		return r.Permission, ports.ErrPermissionDenied
	default:
		return push.PermissionDefault, ports.ErrPermissionPending
	}
}

// Token returns the latest messaging token the browser reported.
func (s *BrowserSource) Token(ctx context.Context) (string, error) {
	r, err := s.reports.GetReport(ctx, s.sessionID)
	if err != nil {
		return "", fmt.Errorf("read push report: %w", err)
	}
	if r.Permission != push.PermissionGranted {
		return "", ports.ErrPermissionPending
	}
	if r.Token == "" {
		return "", ports.ErrNoToken
	}
	return r.Token, nil
}
