package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/domain/model"
)

func TestAnalyticsService_DashboardFromAggregate(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("GET /api/analytics/dashboard", http.StatusOK, envelope(obj{
		"users":         obj{"total": 120, "active": 80},
		"subscriptions": obj{"total": 30, "active": 25, "revenue": obj{"total": 999.5}},
		"affirmations": obj{
			"totalAffirmations":   12,
			"categoryStats":       []obj{{"categoryName": "Sleep", "count": 5}},
			"popularAffirmations": []obj{{"content": "I rest", "category": "Sleep", "usageCount": 40}},
		},
		"posts":      obj{"totalPosts": 9, "weeklyVolume": []obj{{"day": "Mon", "posts": 2}}},
		"userGrowth": []obj{{"month": "2026-03", "users": 9}, {"month": "2026-02", "users": 4}},
	}))
	svc := NewAnalyticsService(f.opts, nil)

	stats, err := svc.Dashboard(sessionCtx())
	require.NoError(t, err)
	assert.False(t, stats.Fallback)
	assert.Equal(t, 120, stats.Users.Total)
	assert.InDelta(t, 999.5, stats.Subscriptions.Revenue.Total, 0.001)
	require.NotNil(t, stats.Affirmations.MostPopular)
	assert.Equal(t, "I rest", stats.Affirmations.MostPopular.Content)
	assert.Equal(t, []model.MonthlyUsers{{Month: "Feb", Users: 4}, {Month: "Mar", Users: 9}}, stats.UserSignups)
	assert.Len(t, f.api.Calls(), 1)
}

func TestAnalyticsService_DashboardFallback(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("GET /api/analytics/dashboard", http.StatusInternalServerError, obj{"message": "aggregation failed"})
	f.api.JSON("GET /api/admin/users/statistics", http.StatusOK, envelope(obj{"totalUsers": 50, "activeUsers": 20, "newUsersThisMonth": 3}))
	f.api.JSON("GET /api/admin/subscriptions/stats", http.StatusOK, envelope(obj{
		"overview": obj{"totalSubscriptions": 7, "activeSubscriptions": 6},
		"byPlan":   obj{"monthly": 4, "yearly": 2},
	}))
	f.api.JSON("GET /api/affirmations", http.StatusOK, envelope([]obj{
		{"id": "a1", "categoryId": "c1"},
		{"id": "a2", "categoryId": "c1"},
		{"id": "a3", "categoryId": "c2", "category": obj{"name": "Focus"}},
		{"id": "a4"},
	}))
	f.api.JSON("GET /api/category/{$}", http.StatusOK, envelope([]obj{{"id": "c1", "name": "Sleep"}, {"id": "c2", "name": "Focus"}}))
	// 2026-03-02 is a Monday, 2026-03-08 a Sunday.
	f.api.JSON("GET /api/post/admin/all", http.StatusOK, envelope(obj{"posts": []obj{
		{"id": "p1", "createdAt": "2026-03-02T09:00:00Z"},
		{"id": "p2", "createdAt": "2026-03-02T18:00:00Z"},
		{"id": "p3", "createdAt": "2026-03-08T12:00:00Z"},
	}}))
	f.api.JSON("GET /api/analytics/user-growth", http.StatusNotFound, obj{"message": "nope"})
	svc := NewAnalyticsService(f.opts, time.UTC)

	stats, err := svc.Dashboard(sessionCtx())
	require.NoError(t, err)
	assert.True(t, stats.Fallback)
	assert.Equal(t, 50, stats.Users.Total)
	assert.Equal(t, 6, stats.Subscriptions.Active)
	assert.Equal(t, 4, stats.Subscriptions.Monthly)
	assert.Equal(t, 4, stats.Affirmations.Total)
	assert.Equal(t, []model.NamedCount{
		{Name: "Sleep", Value: 2},
		{Name: "Focus", Value: 1},
		{Name: "Uncategorized", Value: 1},
	}, stats.Affirmations.Categories)
	assert.Equal(t, 3, stats.Posts.Total)
	assert.Equal(t, model.DayVolume{Day: "Mon", Posts: 2}, stats.Posts.WeeklyVolume[0])
	assert.Equal(t, model.DayVolume{Day: "Sun", Posts: 1}, stats.Posts.WeeklyVolume[6])
	assert.Empty(t, stats.UserSignups)
}

func TestAnalyticsService_DashboardDoesNotMaskUnauthorized(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("GET /api/analytics/dashboard", http.StatusUnauthorized, obj{"message": "expired"})
	svc := NewAnalyticsService(f.opts, nil)

	_, err := svc.Dashboard(sessionCtx())
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	assert.Len(t, f.api.Calls(), 1, "no fallback requests after a 401")
}

func TestAnalyticsService_FallbackFailure(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("GET /api/analytics/dashboard", http.StatusBadGateway, obj{})
	f.api.JSON("GET /api/admin/users/statistics", http.StatusBadGateway, obj{})
	svc := NewAnalyticsService(f.opts, nil)

	_, err := svc.Dashboard(sessionCtx())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compute dashboard")
}

func TestAnalyticsService_ReportToleratesPartialFailure(t *testing.T) {
	f := newResourceFixture(t)
	f.api.JSON("GET /api/analytics/affirmations", http.StatusOK, envelope(obj{"totalAffirmations": 3}))
	f.api.JSON("GET /api/analytics/posts", http.StatusInternalServerError, obj{})
	f.api.JSON("GET /api/analytics/user-growth", http.StatusOK, envelope([]obj{{"month": "2026-01", "users": 2}}))
	f.api.JSON("GET /api/analytics/popular-affirmations", http.StatusOK, envelope([]obj{{"content": "x", "usageCount": 1}}))
	f.api.JSON("GET /api/analytics/affirmation-completion-rate", http.StatusOK, envelope(obj{"total": 10, "completed": 4, "rate": 40}))
	svc := NewAnalyticsService(f.opts, nil)

	r, err := svc.Report(sessionCtx())
	require.NoError(t, err)
	assert.Nil(t, r.Posts)
	assert.Equal(t, 3, r.Affirmations.TotalAffirmations)
	assert.Equal(t, []model.MonthlyUsers{{Month: "Jan", Users: 2}}, r.UserGrowth)
	assert.InDelta(t, 40.0, r.CompletionRate.Rate, 0.001)
}
