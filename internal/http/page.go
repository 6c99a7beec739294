package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/wishara/admin-console/internal/domain/auth"
	"github.com/wishara/admin-console/internal/domain/push"
	"github.com/wishara/admin-console/internal/service"
)

const errMsgFixBelow = "Please fix the errors below."

// AuthServiceInterface is the slice of the auth service the UI needs.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	UpdateSessionUser(ctx context.Context, sessionID string, user domainauth.User) error
	Logout(ctx context.Context, sessionID string) error
}

// PushService is the slice of the token registry the notification endpoints need.
type PushService interface {
	Report(ctx context.Context, sess domainauth.Session, permission push.Permission, token string) error
	Snapshot(sessionID string) push.Snapshot
	Stop(sessionID string)
}

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T               *TemplateRenderer
	Auth            AuthServiceInterface
	CategorySvc     *service.CategoryService
	PostSvc         *service.PostService
	AffirmationSvc  *service.AffirmationService
	CommunitySvc    *service.CommunityService
	UserSvc         *service.UserService
	SubscriptionSvc *service.SubscriptionService
	AdminSubSvc     *service.AdminSubscriptionService
	NotificationSvc *service.NotificationService
	AnalyticsSvc    *service.AnalyticsService
	AuditSvc        *service.AuditService

	CookieDomain string
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
	Now          func() time.Time
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"IsAdmin":         false,
		"Errors":          map[string]string{},
	}
	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}
	if session := GetSessionFromContext(r.Context()); session != nil {
		data["User"] = session.User
		data["IsAuthenticated"] = true
		data["IsAdmin"] = session.IsAdmin()
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, runs the fetch and renders. A fetch rejected with
// an expired backend session ends the session instead of rendering.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			if h.handleAuthFailure(w, r, err) {
				return
			}
			h.logger().WarnContext(r.Context(), "page fetch failed",
				"page", spec.Meta.CurrentPage, "error", err)
			markPageError(data, err)
		}
	}
	h.renderDashboardPage(w, r, data)
}

// renderDashboardPage renders the layout for full loads and the content
// fragment plus out-of-band title updates for htmx swaps.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	currentPage, _ := data["CurrentPage"].(string)

	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(pageTitle) + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}
	if err := h.T.RenderContent(w, currentPage, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)
	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<pre class="template-error">` + html.EscapeString(context+": "+err.Error()) + `</pre>`))
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// pageParams parses page and page_size with sane defaults.
func pageParams(q url.Values) (int, int) {
	page := 1
	size := defaultPageSize
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 && n <= maxPageSize {
		size = n
	}
	return page, size
}

// buildPageURL returns basePath with page set, preserving the other non-empty query params.
func buildPageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		kept := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			qq[k] = kept
		}
	}
	qq.Set("page", strconv.Itoa(page))
	return basePath + "?" + qq.Encode()
}

// pagerData fills the Prev/Next links shared by every paged list.
func pagerData(r *http.Request, data map[string]any, page, totalPages int) {
	data["Page"] = page
	data["TotalPages"] = totalPages
	if page > 1 {
		data["PrevURL"] = buildPageURL(r.URL.Path, r.URL.Query(), page-1)
	}
	if page < totalPages {
		data["NextURL"] = buildPageURL(r.URL.Path, r.URL.Query(), page+1)
	}
}

// parseBoolFilter reads "true"/"false" query values; anything else is unset.
func parseBoolFilter(v string) *bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1":
		b := true
		return &b
	case "false", "no", "0":
		b := false
		return &b
	default:
		return nil
	}
}

// checkbox reads an HTML checkbox value.
func checkbox(r *http.Request, name string) bool {
	switch strings.ToLower(r.PostFormValue(name)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
