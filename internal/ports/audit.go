package ports

import (
	"context"

	"github.com/wishara/admin-console/internal/domain/model"
)

// AuditRepository stores admin mutation records.
type AuditRepository interface {
	Record(ctx context.Context, e model.AuditEntry) error
	// List returns one page of entries, newest first, and the total count.
	List(ctx context.Context, opts model.AuditListOptions) ([]model.AuditEntry, int, error)
}
