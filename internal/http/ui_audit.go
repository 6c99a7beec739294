package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/wishara/admin-console/internal/domain/model"
)

// Audit lists recorded admin mutations, newest first.
func (h *UIHandlers) Audit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := pageParams(q)
	actor := strings.TrimSpace(q.Get("actor"))
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Audit Log", PageTitle: "Audit Log", CurrentPage: PageAudit},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Actor"] = actor
			result, err := h.AuditSvc.List(ctx, model.AuditListOptions{
				Limit:  size,
				Offset: (page - 1) * size,
				Actor:  actor,
			})
			if err != nil {
				return err
			}
			data["Entries"] = result.Items
			data["Total"] = result.Pagination.Total
			pagerData(r, data, result.Pagination.Page, result.Pagination.TotalPages)
			return nil
		},
	})
}
