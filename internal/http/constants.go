package httpx

// CurrentPage identifiers used by templates and navigation.
const (
	PageDashboard = "dashboard"
	PageLogin     = "login"

	PageCategories   = "categories"
	PageCategoryForm = "category-form"

	PagePosts    = "posts"
	PagePostView = "post-view"
	PagePostForm = "post-form"

	PageAffirmations    = "affirmations"
	PageAffirmationForm = "affirmation-form"

	PageCommunities   = "communities"
	PageCommunityView = "community-view"
	PageCommunityForm = "community-form"

	PageUsers    = "users"
	PageUserView = "user-view"
	PageUserForm = "user-form"

	PageProfile = "profile"

	PageSubscription        = "subscription"
	PageSubscriptionSuccess = "subscription-success"

	PageAdminSubscriptions    = "admin-subscriptions"
	PageAdminSubscriptionView = "admin-subscription-view"

	PageNotifications = "notifications"
	PageAnalytics     = "analytics"
	PageAudit         = "audit"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

// Default page sizes for client-side paginated lists.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageDashboard:             "dashboard-content",
	PageCategories:            "categories-content",
	PageCategoryForm:          "category-form-content",
	PagePosts:                 "posts-content",
	PagePostView:              "post-view-content",
	PagePostForm:              "post-form-content",
	PageAffirmations:          "affirmations-content",
	PageAffirmationForm:       "affirmation-form-content",
	PageCommunities:           "communities-content",
	PageCommunityView:         "community-view-content",
	PageCommunityForm:         "community-form-content",
	PageUsers:                 "users-content",
	PageUserView:              "user-view-content",
	PageUserForm:              "user-form-content",
	PageProfile:               "profile-content",
	PageSubscription:          "subscription-content",
	PageSubscriptionSuccess:   "subscription-success-content",
	PageAdminSubscriptions:    "admin-subscriptions-content",
	PageAdminSubscriptionView: "admin-subscription-view-content",
	PageNotifications:         "notifications-content",
	PageAnalytics:             "analytics-content",
	PageAudit:                 "audit-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
