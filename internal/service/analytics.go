package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/domain/model"
	apperrors "github.com/wishara/admin-console/internal/errors"
)

const topCategories = 5

// AnalyticsService serves the dashboard and the analytics pages.
type AnalyticsService struct {
	resource
	loc *time.Location
}

// NewAnalyticsService constructs a new AnalyticsService. loc is the zone
// posts are bucketed into weekdays in.
func NewAnalyticsService(opts ResourceOptions, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{resource: newResource(opts, "analytics"), loc: loc}
}

// Dashboard returns the dashboard stats from the aggregate endpoint, or
// computes them from the individual resources when that endpoint fails.
// Authorization failures are never masked by the fallback.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var agg model.DashboardAnalytics
	err := s.get(ctx, "/analytics/dashboard", nil, "", &agg)
	if err == nil {
		stats := agg.Stats()
		return &stats, nil
	}
	if errors.Is(err, backend.ErrUnauthorized) || apperrors.IsForbidden(err) {
		return nil, err
	}
	s.logger.WarnContext(ctx, "dashboard analytics unavailable, computing locally", "error", err)
	return s.fallback(ctx)
}

func (s *AnalyticsService) fallback(ctx context.Context) (*model.DashboardStats, error) {
	var (
		users        model.UserStatistics
		subs         model.SubscriptionStats
		affirmations []model.Affirmation
		categories   []model.Category
		posts        []model.Post
		growth       []model.MonthlyUsers
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.get(gctx, "/admin/users/statistics", nil, "", &users) })
	g.Go(func() error { return s.get(gctx, "/admin/subscriptions/stats", nil, "", &subs) })
	g.Go(func() error { return s.get(gctx, "/affirmations", nil, "", &affirmations) })
	g.Go(func() error { return s.get(gctx, "/category/", nil, "", &categories) })
	g.Go(func() error { return s.get(gctx, "/post/admin/all", nil, backend.UnwrapPosts, &posts) })
	g.Go(func() error {
		// The growth series is optional; the chart is left empty without it.
		if err := s.get(gctx, "/analytics/user-growth", nil, "", &growth); err != nil {
			growth = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute dashboard: %w", err)
	}

	stats := model.DashboardStats{Fallback: true}
	stats.Users = model.UserTotals{
		Total:               users.TotalUsers,
		Active:              users.ActiveUsers,
		NewThisMonth:        users.NewUsersThisMonth,
		WithSubscription:    users.UsersWithSubscription,
		WithoutSubscription: users.UsersWithoutSubscription,
	}
	stats.Subscriptions = model.SubscriptionTotals{
		Total:   subs.Overview.TotalSubscriptions,
		Active:  subs.Overview.ActiveSubscriptions,
		Monthly: subs.ByPlan.Monthly,
		Yearly:  subs.ByPlan.Yearly,
		Revenue: subs.Revenue,
	}
	stats.Affirmations.Total = len(affirmations)
	stats.Affirmations.Categories = model.TopAffirmationCategories(withCategoryNames(affirmations, categories), topCategories)
	stats.Posts.Total = len(posts)
	stats.Posts.WeeklyVolume = model.WeeklyPostVolume(posts, s.loc)
	stats.UserSignups = model.UserGrowthToSignups(growth)
	return &stats, nil
}

// withCategoryNames fills in missing embedded categories from the category list.
func withCategoryNames(affs []model.Affirmation, cats []model.Category) []model.Affirmation {
	byID := make(map[string]*model.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}
	out := make([]model.Affirmation, len(affs))
	for i, a := range affs {
		if a.Category == nil {
			a.Category = byID[a.CategoryID]
		}
		out[i] = a
	}
	return out
}

// Affirmations returns the affirmation analytics block.
func (s *AnalyticsService) Affirmations(ctx context.Context) (*model.AffirmationAnalytics, error) {
	var out model.AffirmationAnalytics
	if err := s.get(ctx, "/analytics/affirmations", nil, "", &out); err != nil {
		return nil, fmt.Errorf("affirmation analytics: %w", err)
	}
	return &out, nil
}

// Posts returns the post analytics block.
func (s *AnalyticsService) Posts(ctx context.Context) (*model.PostAnalytics, error) {
	var out model.PostAnalytics
	if err := s.get(ctx, "/analytics/posts", nil, "", &out); err != nil {
		return nil, fmt.Errorf("post analytics: %w", err)
	}
	return &out, nil
}

// UserGrowth returns monthly signups in chronological order.
func (s *AnalyticsService) UserGrowth(ctx context.Context) ([]model.MonthlyUsers, error) {
	var out []model.MonthlyUsers
	if err := s.get(ctx, "/analytics/user-growth", nil, "", &out); err != nil {
		return nil, fmt.Errorf("user growth: %w", err)
	}
	return model.UserGrowthToSignups(out), nil
}

// PopularAffirmations returns the most used affirmations.
func (s *AnalyticsService) PopularAffirmations(ctx context.Context) ([]model.PopularAffirmation, error) {
	var out []model.PopularAffirmation
	if err := s.get(ctx, "/analytics/popular-affirmations", nil, "", &out); err != nil {
		return nil, fmt.Errorf("popular affirmations: %w", err)
	}
	return out, nil
}

// CompletionRate returns the affirmation completion rate.
func (s *AnalyticsService) CompletionRate(ctx context.Context) (*model.CompletionRate, error) {
	var out model.CompletionRate
	if err := s.get(ctx, "/analytics/affirmation-completion-rate", nil, "", &out); err != nil {
		return nil, fmt.Errorf("completion rate: %w", err)
	}
	return &out, nil
}

// Report is the analytics page: every sub-endpoint fetched in parallel.
// Sections whose call failed are nil.
type Report struct {
	Affirmations   *model.AffirmationAnalytics
	Posts          *model.PostAnalytics
	UserGrowth     []model.MonthlyUsers
	Popular        []model.PopularAffirmation
	CompletionRate *model.CompletionRate
}

// Report gathers the analytics page. It fails only when every section failed
// or the session was rejected.
func (s *AnalyticsService) Report(ctx context.Context) (*Report, error) {
	var (
		r    Report
		errs [5]error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { r.Affirmations, errs[0] = s.Affirmations(gctx); return nil })
	g.Go(func() error { r.Posts, errs[1] = s.Posts(gctx); return nil })
	g.Go(func() error { r.UserGrowth, errs[2] = s.UserGrowth(gctx); return nil })
	g.Go(func() error { r.Popular, errs[3] = s.PopularAffirmations(gctx); return nil })
	g.Go(func() error { r.CompletionRate, errs[4] = s.CompletionRate(gctx); return nil })
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, err
		}
		if err != nil {
			failed++
			s.logger.WarnContext(ctx, "analytics section unavailable", "error", err)
		}
	}
	if failed == len(errs) {
		return nil, errors.Join(errs[:]...)
	}
	return &r, nil
}
