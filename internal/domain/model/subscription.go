package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	minExtendDays = 1
	maxExtendDays = 365
)

// Plan is a purchasable subscription plan.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Interval string   `json:"interval"`
	Features []string `json:"features"`
	Savings  string   `json:"savings,omitempty"`
}

// Subscription is a user's subscription record.
type Subscription struct {
	ID                   string    `json:"id"`
	Plan                 string    `json:"plan"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	IsActive             bool      `json:"isActive"`
	StripeSubscriptionID string    `json:"stripeSubscriptionId,omitempty"`
	StripeCustomerID     string    `json:"stripeCustomerId,omitempty"`
	CreatedAt            time.Time `json:"createdAt,omitzero"`
	UpdatedAt            time.Time `json:"updatedAt,omitzero"`
}

// SubscriptionStatus is the signed-in account's subscription state.
type SubscriptionStatus struct {
	HasSubscription bool          `json:"hasSubscription"`
	Subscription    *Subscription `json:"subscription"`
}

// Active reports whether the status carries an active subscription.
func (s SubscriptionStatus) Active() bool {
	return s.HasSubscription && s.Subscription != nil && s.Subscription.IsActive
}

// CheckoutSession is the Stripe checkout handle returned by the API.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// SubscriptionUser is the user summary embedded in admin subscription rows.
type SubscriptionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

// AdminSubscription is a subscription row with its owner.
type AdminSubscription struct {
	Subscription
	User SubscriptionUser `json:"user"`
}

// AdminSubscriptionDetail is the detail view with the user's history.
type AdminSubscriptionDetail struct {
	Subscription AdminSubscription   `json:"subscription"`
	History      []AdminSubscription `json:"history"`
}

// SubscriptionPagination is the page block of the admin subscription list.
type SubscriptionPagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	Limit       int  `json:"limit"`
}

// Pagination converts to the shared page block.
func (p SubscriptionPagination) Pagination() Pagination {
	return Pagination{Page: p.CurrentPage, Limit: p.Limit, Total: p.TotalItems, TotalPages: p.TotalPages}
}

// AdminSubscriptionList is one page of admin subscriptions.
type AdminSubscriptionList struct {
	Subscriptions []AdminSubscription    `json:"subscriptions"`
	Pagination    SubscriptionPagination `json:"pagination"`
}

// Revenue groups revenue totals by plan interval.
type Revenue struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
	Total   float64 `json:"total"`
}

// SubscriptionStats is the admin subscription overview.
type SubscriptionStats struct {
	Overview struct {
		TotalSubscriptions   int `json:"totalSubscriptions"`
		ActiveSubscriptions  int `json:"activeSubscriptions"`
		ExpiredSubscriptions int `json:"expiredSubscriptions"`
		RecentSubscriptions  int `json:"recentSubscriptions"`
	} `json:"overview"`
	ByPlan struct {
		Monthly int `json:"monthly"`
		Yearly  int `json:"yearly"`
	} `json:"byPlan"`
	Revenue Revenue `json:"revenue"`
}

// DailySubscriptionStat is one point of the subscription growth series.
type DailySubscriptionStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Plan  string `json:"plan"`
}

// SubscriptionAnalytics is the period analytics block.
type SubscriptionAnalytics struct {
	Period                 string                  `json:"period"`
	NewSubscriptions       int                     `json:"newSubscriptions"`
	CancelledSubscriptions int                     `json:"cancelledSubscriptions"`
	DailyStats             []DailySubscriptionStat `json:"dailyStats"`
}

// SubscriptionListOptions are the admin subscription list filters.
type SubscriptionListOptions struct {
	Page      int
	Limit     int
	Plan      string
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

var (
	allowedSubscriptionSort   = map[string]bool{"createdAt": true, "endDate": true, "startDate": true, "plan": true}
	allowedSubscriptionStatus = map[string]bool{"active": true, "expired": true, "cancelled": true}
)

// Query renders the options as API query parameters, dropping unsupported values.
func (o SubscriptionListOptions) Query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if p := strings.ToLower(strings.TrimSpace(o.Plan)); p == "monthly" || p == "yearly" {
		q.Set("plan", p)
	}
	if s := strings.ToLower(strings.TrimSpace(o.Status)); allowedSubscriptionStatus[s] {
		q.Set("status", s)
	}
	if s := strings.TrimSpace(o.Search); s != "" {
		q.Set("search", s)
	}
	if allowedSubscriptionSort[o.SortBy] {
		q.Set("sortBy", o.SortBy)
		if strings.EqualFold(o.SortOrder, "asc") {
			q.Set("sortOrder", "asc")
		} else {
			q.Set("sortOrder", "desc")
		}
	}
	return q
}

// CancelSubscriptionRequest is the admin cancel body.
type CancelSubscriptionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ExtendSubscriptionRequest is the admin extend body.
type ExtendSubscriptionRequest struct {
	Days   int    `json:"days"`
	Reason string `json:"reason,omitempty"`
}

// Validate enforces the 1..365 day window.
func (r *ExtendSubscriptionRequest) Validate() error {
	if r.Days < minExtendDays || r.Days > maxExtendDays {
		return validationField("days", "Days must be between 1 and 365")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	return maxText("reason", "Reason", r.Reason, 500)
}
