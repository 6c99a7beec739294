package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
	"github.com/wishara/admin-console/internal/http/validation"
)

func subscriptionListOptions(r *http.Request) model.SubscriptionListOptions {
	q := r.URL.Query()
	page, size := pageParams(q)
	return model.SubscriptionListOptions{
		Page:      page,
		Limit:     size,
		Plan:      q.Get("plan"),
		Status:    q.Get("status"),
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
}

// AdminSubscriptions is the subscription overview: the filtered list plus
// stats and 30-day analytics when available.
func (h *UIHandlers) AdminSubscriptions(w http.ResponseWriter, r *http.Request) {
	opts := subscriptionListOptions(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Subscriptions", PageTitle: "Subscriptions", CurrentPage: PageAdminSubscriptions},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Filter"] = r.URL.Query()
			ov, err := h.AdminSubSvc.Overview(ctx, opts)
			if err != nil {
				return err
			}
			data["Subscriptions"] = ov.List.Subscriptions
			data["Stats"] = ov.Stats
			data["Analytics"] = ov.Analytics
			p := ov.List.Pagination.Pagination()
			data["Total"] = p.Total
			pagerData(r, data, max(p.Page, 1), max(p.TotalPages, 1))
			return nil
		},
	})
}

// AdminSubscriptionView shows one subscription and its owner's history.
func (h *UIHandlers) AdminSubscriptionView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Subscription", PageTitle: "Subscription Detail", CurrentPage: PageAdminSubscriptionView},
		Fetch: func(ctx context.Context, data map[string]any) error {
			d, err := h.AdminSubSvc.Detail(ctx, id)
			if err != nil {
				return err
			}
			data["Detail"] = d
			return nil
		},
	})
}

func (h *UIHandlers) adminSubscriptionDone(w http.ResponseWriter, r *http.Request, id, msg string) {
	h.succeeded(w, r, "/admin/subscriptions/"+id, msg, func(w http.ResponseWriter, r2 *http.Request) {
		r2.SetPathValue("id", id)
		h.AdminSubscriptionView(w, r2)
	})
}

// AdminSubscriptionCancel handles POST /admin/subscriptions/{id}/cancel.
func (h *UIHandlers) AdminSubscriptionCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req := model.CancelSubscriptionRequest{Reason: r.PostFormValue("reason")}
	if err := h.AdminSubSvc.Cancel(r.Context(), id, req); err != nil {
		h.actionFailed(w, r, err, "Unable to cancel subscription.")
		return
	}
	h.adminSubscriptionDone(w, r, id, "Subscription cancelled")
}

// AdminSubscriptionExtend handles POST /admin/subscriptions/{id}/extend.
func (h *UIHandlers) AdminSubscriptionExtend(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	raw := r.PostFormValue("days")
	if msg := validation.IntRange("Days", 1, 365)(raw); msg != "" {
		h.actionFailed(w, r, apperrors.ValidationField("days", msg), msg)
		return
	}
	days, _ := strconv.Atoi(strings.TrimSpace(raw))
	req := model.ExtendSubscriptionRequest{Days: days, Reason: r.PostFormValue("reason")}
	if err := h.AdminSubSvc.Extend(r.Context(), id, req); err != nil {
		h.actionFailed(w, r, err, "Unable to extend subscription.")
		return
	}
	h.adminSubscriptionDone(w, r, id, "Subscription extended by "+strconv.Itoa(days)+" days")
}
