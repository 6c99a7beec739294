package httpx

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wishara/admin-console/internal/domain/model"
)

// Subscription shows the plans and the signed-in account's subscription.
func (h *UIHandlers) Subscription(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Subscription", PageTitle: "Subscription", CurrentPage: PageSubscription},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				plans  []model.Plan
				status model.SubscriptionStatus
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				plans, err = h.SubscriptionSvc.Plans(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				status, err = h.SubscriptionSvc.Status(gctx)
				return err
			})
			err := g.Wait()
			data["Plans"] = plans
			data["Status"] = status
			data["Active"] = status.Active()
			return err
		},
	})
}

// SubscriptionCheckout starts a Stripe checkout and sends the browser to it.
func (h *UIHandlers) SubscriptionCheckout(w http.ResponseWriter, r *http.Request) {
	planType := strings.ToLower(strings.TrimSpace(r.PostFormValue("planType")))
	session, err := h.SubscriptionSvc.Checkout(r.Context(), planType)
	if err != nil {
		h.actionFailed(w, r, err, "Unable to start checkout.")
		return
	}
	if IsHTMX(r) {
		HTMX(w).Redirect(session.URL)
		return
	}
	http.Redirect(w, r, session.URL, http.StatusSeeOther)
}

// SubscriptionCancel cancels the signed-in account's subscription.
func (h *UIHandlers) SubscriptionCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.SubscriptionSvc.Cancel(r.Context()); err != nil {
		h.actionFailed(w, r, err, "Unable to cancel subscription.")
		return
	}
	h.succeeded(w, r, "/subscription", "Subscription cancelled", h.Subscription)
}

// SubscriptionSuccess is the Stripe success return URL. It confirms the
// payment with the API before showing the result.
func (h *UIHandlers) SubscriptionSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Payment", PageTitle: "Payment", CurrentPage: PageSubscriptionSuccess},
		Fetch: func(ctx context.Context, data map[string]any) error {
			if sessionID == "" {
				data["ErrorMessage"] = "Missing checkout session."
				data["Error"] = true
				return nil
			}
			status, err := h.SubscriptionSvc.VerifyPayment(ctx, sessionID)
			if err != nil {
				return err
			}
			data["Verified"] = true
			data["Status"] = status
			return nil
		},
	})
}

// SubscriptionCancelled is the Stripe cancel return URL.
func (h *UIHandlers) SubscriptionCancelled(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{Title: "Wishara Admin - Payment", PageTitle: "Payment", CurrentPage: PageSubscriptionSuccess})
	data["Cancelled"] = true
	h.renderDashboardPage(w, r, data)
}
