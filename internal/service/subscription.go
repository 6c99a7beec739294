package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
)

// SubscriptionService is the signed-in account's own subscription flow.
type SubscriptionService struct {
	resource
}

// NewSubscriptionService constructs a new SubscriptionService.
func NewSubscriptionService(opts ResourceOptions) *SubscriptionService {
	return &SubscriptionService{resource: newResource(opts, "subscriptions")}
}

// Plans lists purchasable plans.
func (s *SubscriptionService) Plans(ctx context.Context) ([]model.Plan, error) {
	var out []model.Plan
	if err := s.get(ctx, "/subscription/plans", nil, "not_null(data.plans, data, @)", &out); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return out, nil
}

// Status returns the account's subscription state.
func (s *SubscriptionService) Status(ctx context.Context) (model.SubscriptionStatus, error) {
	var out model.SubscriptionStatus
	if err := s.get(ctx, "/subscription/status", nil, "", &out); err != nil {
		return model.SubscriptionStatus{}, fmt.Errorf("subscription status: %w", err)
	}
	return out, nil
}

// Checkout starts a Stripe checkout for planType and returns its URL.
func (s *SubscriptionService) Checkout(ctx context.Context, planType string) (*model.CheckoutSession, error) {
	planType = strings.ToLower(strings.TrimSpace(planType))
	if planType != "monthly" && planType != "yearly" {
		return nil, apperrors.ValidationField("planType", "Choose the monthly or yearly plan")
	}
	body := struct {
		PlanType string `json:"planType"`
	}{planType}
	var out model.CheckoutSession
	if err := s.send(ctx, http.MethodPost, "/subscription/create-checkout-session", body, &out); err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	if out.URL == "" {
		return nil, apperrors.Internal("Checkout session did not include a redirect URL")
	}
	return &out, nil
}

// Cancel cancels the account's subscription.
func (s *SubscriptionService) Cancel(ctx context.Context) error {
	if err := s.send(ctx, http.MethodPost, "/subscription/cancel", nil, nil); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	s.record(ctx, model.AuditCancel, "subscription", "self", "")
	return nil
}

// VerifyPayment confirms a finished checkout. When the webhook has not
// activated the subscription yet, the test webhook is triggered once and the
// status re-read.
func (s *SubscriptionService) VerifyPayment(ctx context.Context, sessionID string) (model.SubscriptionStatus, error) {
	if strings.TrimSpace(sessionID) == "" {
		return model.SubscriptionStatus{}, apperrors.ValidationField("session_id", "Missing checkout session")
	}
	q := url.Values{"session_id": {sessionID}}
	var verified model.SubscriptionStatus
	if err := s.get(ctx, "/subscription/verify-payment", q, "", &verified); err != nil {
		return model.SubscriptionStatus{}, fmt.Errorf("verify payment: %w", err)
	}
	if verified.Active() {
		return verified, nil
	}

	body := struct {
		SessionID string `json:"session_id"`
	}{sessionID}
	if err := s.send(ctx, http.MethodPost, "/subscription/test-webhook", body, nil); err != nil {
		s.logger.WarnContext(ctx, "test webhook failed", "error", err)
	}
	return s.Status(ctx)
}

// AdminSubscriptionService is the administrators' view of all subscriptions.
type AdminSubscriptionService struct {
	resource
}

// NewAdminSubscriptionService constructs a new AdminSubscriptionService.
func NewAdminSubscriptionService(opts ResourceOptions) *AdminSubscriptionService {
	return &AdminSubscriptionService{resource: newResource(opts, "admin_subscriptions")}
}

// List returns one page of subscriptions.
func (s *AdminSubscriptionService) List(ctx context.Context, opts model.SubscriptionListOptions) (*model.AdminSubscriptionList, error) {
	var out model.AdminSubscriptionList
	if err := s.get(ctx, "/admin/subscriptions", opts.Query(), "", &out); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return &out, nil
}

// Stats returns the subscription overview.
func (s *AdminSubscriptionService) Stats(ctx context.Context) (*model.SubscriptionStats, error) {
	var out model.SubscriptionStats
	if err := s.get(ctx, "/admin/subscriptions/stats", nil, "", &out); err != nil {
		return nil, fmt.Errorf("subscription stats: %w", err)
	}
	return &out, nil
}

// Analytics returns growth over the last periodDays days.
func (s *AdminSubscriptionService) Analytics(ctx context.Context, periodDays int) (*model.SubscriptionAnalytics, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	q := url.Values{"period": {fmt.Sprint(periodDays)}}
	var out model.SubscriptionAnalytics
	if err := s.get(ctx, "/admin/subscriptions/analytics", q, "", &out); err != nil {
		return nil, fmt.Errorf("subscription analytics: %w", err)
	}
	return &out, nil
}

// Overview is everything the admin subscriptions page shows.
type Overview struct {
	List      *model.AdminSubscriptionList
	Stats     *model.SubscriptionStats
	Analytics *model.SubscriptionAnalytics
}

// Overview fetches the list, stats and analytics in parallel. The list is
// required; stats and analytics are left nil when their calls fail, unless
// the API rejected the session.
func (s *AdminSubscriptionService) Overview(ctx context.Context, opts model.SubscriptionListOptions) (*Overview, error) {
	var ov Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.List(gctx, opts)
		ov.List = list
		return err
	})
	g.Go(func() error {
		stats, err := s.Stats(gctx)
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}
		if err != nil {
			s.logger.WarnContext(ctx, "subscription stats unavailable", "error", err)
			return nil
		}
		ov.Stats = stats
		return nil
	})
	g.Go(func() error {
		a, err := s.Analytics(gctx, 30)
		if errors.Is(err, backend.ErrUnauthorized) {
			return err
		}
		if err != nil {
			s.logger.WarnContext(ctx, "subscription analytics unavailable", "error", err)
			return nil
		}
		ov.Analytics = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

// Detail returns one subscription with the owner's history.
func (s *AdminSubscriptionService) Detail(ctx context.Context, id string) (*model.AdminSubscriptionDetail, error) {
	var out model.AdminSubscriptionDetail
	if err := s.get(ctx, "/admin/subscriptions/"+escape(id), nil, "", &out); err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &out, nil
}

// Cancel cancels a subscription on behalf of its owner.
func (s *AdminSubscriptionService) Cancel(ctx context.Context, id string, req model.CancelSubscriptionRequest) error {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := s.send(ctx, http.MethodPost, "/admin/subscriptions/"+escape(id)+"/cancel", req, nil); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	s.record(ctx, model.AuditCancel, "subscription", id, req.Reason)
	return nil
}

// Extend pushes a subscription's end date out by req.Days.
func (s *AdminSubscriptionService) Extend(ctx context.Context, id string, req model.ExtendSubscriptionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.send(ctx, http.MethodPost, "/admin/subscriptions/"+escape(id)+"/extend", req, nil); err != nil {
		return fmt.Errorf("extend subscription: %w", err)
	}
	s.record(ctx, model.AuditExtend, "subscription", id, fmt.Sprintf("%d days", req.Days))
	return nil
}
