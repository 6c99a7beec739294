package httpx

import (
	"context"
	"net/http"

	"github.com/wishara/admin-console/internal/domain/model"
)

// Dashboard serves the landing page. The aggregate comes from the analytics
// endpoint or, when that fails, from the individual lists.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			stats, err := h.AnalyticsSvc.Dashboard(ctx)
			if err != nil {
				return err
			}
			data["Stats"] = stats
			data["CategoryMax"] = model.MaxValue(stats.Affirmations.Categories)
			data["WeeklyMax"] = maxPosts(stats.Posts.WeeklyVolume)
			data["SignupMax"] = maxUsers(stats.UserSignups)
			return nil
		},
	})
}

// AnalyticsPage shows the detailed analytics sections. Missing sections render as unavailable.
func (h *UIHandlers) AnalyticsPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wishara Admin - Analytics", PageTitle: "Analytics", CurrentPage: PageAnalytics},
		Fetch: func(ctx context.Context, data map[string]any) error {
			report, err := h.AnalyticsSvc.Report(ctx)
			if err != nil {
				return err
			}
			data["Report"] = report
			if report.Posts != nil {
				data["WeeklyMax"] = maxPosts(report.Posts.WeeklyVolume)
			}
			data["GrowthMax"] = maxUsers(report.UserGrowth)
			return nil
		},
	})
}

func maxPosts(days []model.DayVolume) int {
	m := 0
	for _, d := range days {
		m = max(m, d.Posts)
	}
	return m
}

func maxUsers(months []model.MonthlyUsers) int {
	m := 0
	for _, v := range months {
		m = max(m, v.Users)
	}
	return m
}
