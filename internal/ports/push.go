package ports

import (
	"context"
	"errors"

	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/domain/push"
)

var (
	// ErrPermissionPending means the browser has not answered the permission prompt yet.
	ErrPermissionPending = errors.New("notification permission not yet granted")
	// ErrPermissionDenied means the user blocked notifications.
	ErrPermissionDenied = errors.New("notification permission denied")
	// ErrNoToken means permission is granted but no messaging token has been reported.
	ErrNoToken = errors.New("no messaging token available")
)

// TokenSource is the push provider as seen from one session: it knows the
// permission state and can hand out the current messaging token.
type TokenSource interface {
	RequestPermission(ctx context.Context) (push.Permission, error)
	Token(ctx context.Context) (string, error)
}

// TokenRegistrar is the content API's notification token surface.
// Calls are made with the owning session's bearer token in ctx.
type TokenRegistrar interface {
	RegisterToken(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (model.TokenValidation, error)
	RemoveToken(ctx context.Context, token string) error
}

// BrowserReportStore keeps the last permission/token report per session.
// GetReport returns a zero report, not an error, for unknown sessions.
type BrowserReportStore interface {
	SaveReport(ctx context.Context, sessionID string, r push.BrowserReport) error
	GetReport(ctx context.Context, sessionID string) (push.BrowserReport, error)
	DeleteReport(ctx context.Context, sessionID string) error
}
