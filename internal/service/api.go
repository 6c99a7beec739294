// Package service holds the console's use cases: session lifecycle, the
// content resources administered through the API, analytics and auditing.
// Services depend on port interfaces and on the backend client, never on
// internal/http or concrete adapters.
package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/domain/model"
)

// API is the part of backend.Client the content services need.
type API interface {
	Do(ctx context.Context, req backend.Request, out any) error
}

// ResourceOptions groups dependencies shared by the content services.
type ResourceOptions struct {
	API    API
	Audit  *AuditService // Optional: mutations are not audited when nil
	Logger *slog.Logger  // Optional
}

type resource struct {
	api    API
	audit  *AuditService
	logger *slog.Logger
}

func newResource(opts ResourceOptions, component string) resource {
	if opts.API == nil {
		panic("service: API is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return resource{api: opts.API, audit: opts.Audit, logger: logger.With("component", component)}
}

func (r resource) get(ctx context.Context, path string, q url.Values, unwrap string, out any) error {
	return r.api.Do(ctx, backend.Request{Method: http.MethodGet, Path: path, Query: q, Unwrap: unwrap}, out)
}

func (r resource) send(ctx context.Context, method, path string, body, out any) error {
	return r.api.Do(ctx, backend.Request{Method: method, Path: path, Body: body}, out)
}

func (r resource) record(ctx context.Context, action model.AuditAction, res, id, detail string) {
	r.audit.Record(ctx, auditEvent{action: action, resource: res, id: id, detail: detail})
}

func escape(id string) string { return url.PathEscape(id) }
