package model

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// NamedCount is a generic label/value point for bar lists.
type NamedCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DayVolume is the post count for one weekday.
type DayVolume struct {
	Day   string `json:"day"`
	Posts int    `json:"posts"`
}

// MonthlyUsers is one point of the user growth series.
type MonthlyUsers struct {
	Month string `json:"month"`
	Users int    `json:"users"`
}

// PopularAffirmation is an affirmation with its usage count.
type PopularAffirmation struct {
	Content    string `json:"content"`
	Category   string `json:"category"`
	UsageCount int    `json:"usageCount"`
}

// CompletionRate summarises affirmation completions.
type CompletionRate struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Rate      float64 `json:"rate"`
}

// AffirmationAnalytics is the /analytics/affirmations block.
type AffirmationAnalytics struct {
	TotalAffirmations int `json:"totalAffirmations"`
	TotalUsage        int `json:"totalUsage"`
	CategoryStats     []struct {
		CategoryName string `json:"categoryName"`
		Count        int    `json:"count"`
	} `json:"categoryStats"`
	PopularAffirmations []PopularAffirmation `json:"popularAffirmations"`
	DailyUsage          []struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	} `json:"dailyUsage"`
	CompletionRate CompletionRate `json:"completionRate"`
}

// PostAnalytics is the /analytics/posts block.
type PostAnalytics struct {
	TotalPosts  int `json:"totalPosts"`
	PostsByType []struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	} `json:"postsByType"`
	WeeklyVolume    []DayVolume `json:"weeklyVolume"`
	EngagementStats struct {
		TotalLikes         int     `json:"totalLikes"`
		TotalComments      int     `json:"totalComments"`
		AvgLikesPerPost    float64 `json:"avgLikesPerPost"`
		AvgCommentsPerPost float64 `json:"avgCommentsPerPost"`
	} `json:"engagementStats"`
}

// UserTotals is the user block of the dashboard.
type UserTotals struct {
	Total               int `json:"total"`
	Active              int `json:"active"`
	NewThisMonth        int `json:"newThisMonth"`
	WithSubscription    int `json:"withSubscription"`
	WithoutSubscription int `json:"withoutSubscription"`
}

// SubscriptionTotals is the subscription block of the dashboard.
type SubscriptionTotals struct {
	Total   int     `json:"total"`
	Active  int     `json:"active"`
	Monthly int     `json:"monthly"`
	Yearly  int     `json:"yearly"`
	Revenue Revenue `json:"revenue"`
}

// DashboardAnalytics is the /analytics/dashboard payload.
type DashboardAnalytics struct {
	Users         UserTotals           `json:"users"`
	Subscriptions SubscriptionTotals   `json:"subscriptions"`
	Affirmations  AffirmationAnalytics `json:"affirmations"`
	Posts         PostAnalytics        `json:"posts"`
	UserGrowth    []MonthlyUsers       `json:"userGrowth"`
}

// DashboardStats is what the dashboard page renders, whichever way it was obtained.
type DashboardStats struct {
	Users         UserTotals
	Subscriptions SubscriptionTotals
	Affirmations  struct {
		Total       int
		Categories  []NamedCount
		MostPopular *PopularAffirmation
	}
	Posts struct {
		Total        int
		WeeklyVolume []DayVolume
	}
	UserSignups []MonthlyUsers
	// Fallback is set when the aggregate endpoint failed and the stats were computed locally.
	Fallback bool
}

// Stats maps the aggregate endpoint onto DashboardStats.
func (a DashboardAnalytics) Stats() DashboardStats {
	var s DashboardStats
	s.Users = a.Users
	s.Subscriptions = a.Subscriptions
	s.Affirmations.Total = a.Affirmations.TotalAffirmations
	for _, c := range a.Affirmations.CategoryStats {
		s.Affirmations.Categories = append(s.Affirmations.Categories, NamedCount{Name: c.CategoryName, Value: c.Count})
	}
	if len(a.Affirmations.PopularAffirmations) > 0 {
		top := a.Affirmations.PopularAffirmations[0]
		s.Affirmations.MostPopular = &top
	}
	s.Posts.Total = a.Posts.TotalPosts
	s.Posts.WeeklyVolume = a.Posts.WeeklyVolume
	s.UserSignups = UserGrowthToSignups(a.UserGrowth)
	return s
}

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// UserGrowthToSignups relabels "YYYY-MM" points with month abbreviations and
// reverses the series, which the API returns newest first, into chronological order.
// Unparseable labels are kept as-is.
func UserGrowthToSignups(growth []MonthlyUsers) []MonthlyUsers {
	out := make([]MonthlyUsers, len(growth))
	for i, g := range growth {
		label := g.Month
		if _, m, ok := strings.Cut(g.Month, "-"); ok {
			if n, err := strconv.Atoi(m); err == nil && n >= 1 && n <= 12 {
				label = monthAbbrev[n-1]
			}
		}
		out[len(growth)-1-i] = MonthlyUsers{Month: label, Users: g.Users}
	}
	return out
}

var weekdays = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyPostVolume buckets posts by weekday of CreatedAt (in loc), Monday first.
func WeeklyPostVolume(posts []Post, loc *time.Location) []DayVolume {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]DayVolume, len(weekdays))
	for i, d := range weekdays {
		out[i].Day = d
	}
	for _, p := range posts {
		if p.CreatedAt.IsZero() {
			continue
		}
		// time.Weekday counts from Sunday.
		idx := (int(p.CreatedAt.In(loc).Weekday()) + 6) % 7
		out[idx].Posts++
	}
	return out
}

// TopAffirmationCategories counts affirmations per category name and keeps the n largest.
// Ties sort by name for a stable order.
func TopAffirmationCategories(affirmations []Affirmation, n int) []NamedCount {
	counts := make(map[string]int)
	for _, a := range affirmations {
		counts[a.CategoryName()]++
	}
	out := make([]NamedCount, 0, len(counts))
	for name, v := range counts {
		out = append(out, NamedCount{Name: name, Value: v})
	}
	slices.SortFunc(out, func(a, b NamedCount) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MaxValue returns the largest value in points, for scaling bars.
func MaxValue(points []NamedCount) int {
	m := 0
	for _, p := range points {
		m = max(m, p.Value)
	}
	return m
}
