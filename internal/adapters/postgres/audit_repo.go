// Package postgres stores the console's audit log in PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
	"github.com/wishara/admin-console/internal/ports"
)

// AuditRepo implements ports.AuditRepository on the audit_log table.
type AuditRepo struct {
	pool *pgxpool.Pool
}

var _ ports.AuditRepository = (*AuditRepo)(nil)

// NewAuditRepo creates an AuditRepo. The schema comes from internal/migrate.
func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Record(ctx context.Context, e model.AuditEntry) error {
	const q = `INSERT INTO audit_log (actor, action, resource, resource_id, detail, at)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6::timestamptz, '0001-01-01T00:00:00Z'), now()))`
	_, err := r.pool.Exec(ctx, q, e.Actor, string(e.Action), e.Resource, e.ResourceID, e.Detail, e.At.UTC())
	if err != nil {
		return fmt.Errorf("record audit entry: %w", apperrors.MapDBError(err))
	}
	return nil
}

func (r *AuditRepo) List(ctx context.Context, opts model.AuditListOptions) ([]model.AuditEntry, int, error) {
	opts.Normalize()

	where := ""
	args := []any{}
	if actor := strings.TrimSpace(opts.Actor); actor != "" {
		where = "WHERE lower(actor) = lower($1)"
		args = append(args, actor)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM audit_log "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", apperrors.MapDBError(err))
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT id, actor, action, resource, resource_id, detail, at
		FROM audit_log %s ORDER BY at DESC, id DESC LIMIT $%d OFFSET $%d`, where, n+1, n+2)
	rows, err := r.pool.Query(ctx, q, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", apperrors.MapDBError(err))
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.AuditEntry, error) {
		var e model.AuditEntry
		var action string
		if err := row.Scan(&e.ID, &e.Actor, &action, &e.Resource, &e.ResourceID, &e.Detail, &e.At); err != nil {
			return e, err
		}
		e.Action = model.AuditAction(action)
		return e, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan audit entries: %w", apperrors.MapDBError(err))
	}
	return entries, total, nil
}
