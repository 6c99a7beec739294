package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wishara/admin-console/internal/domain/model"
	"github.com/wishara/admin-console/internal/ports"
)

type actorKey struct{}

// WithActor tags ctx with the display name of the admin performing a request.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor set by WithActor, or "system".
func ActorFrom(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return "system"
}

// AuditServiceOptions groups dependencies for AuditService.
type AuditServiceOptions struct {
	Repo   ports.AuditRepository
	Logger *slog.Logger
	Now    func() time.Time
}

// AuditService records successful admin mutations and lists them.
type AuditService struct {
	repo   ports.AuditRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewAuditService constructs a new AuditService.
func NewAuditService(opts AuditServiceOptions) *AuditService {
	if opts.Repo == nil {
		panic("AuditRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuditService{repo: opts.Repo, logger: logger.With("component", "audit"), now: now}
}

type auditEvent struct {
	action   model.AuditAction
	resource string
	id       string
	detail   string
}

// Record stores one entry. Failures are logged, never returned: the audited
// mutation has already happened.
func (s *AuditService) Record(ctx context.Context, ev auditEvent) {
	if s == nil {
		return
	}
	entry := model.AuditEntry{
		Actor:      ActorFrom(ctx),
		Action:     ev.action,
		Resource:   ev.resource,
		ResourceID: ev.id,
		Detail:     ev.detail,
		At:         s.now().UTC(),
	}
	if err := s.repo.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.WarnContext(ctx, "failed to record audit entry",
			"error", err, "action", ev.action, "resource", ev.resource, "resource_id", ev.id)
	}
}

// List returns a page of entries, newest first.
func (s *AuditService) List(ctx context.Context, opts model.AuditListOptions) (model.Page[model.AuditEntry], error) {
	opts.Normalize()
	entries, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return model.Page[model.AuditEntry]{}, fmt.Errorf("list audit entries: %w", err)
	}
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}
	return model.Page[model.AuditEntry]{
		Items: entries,
		Pagination: model.Pagination{
			Page:       opts.Offset/opts.Limit + 1,
			Limit:      opts.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
