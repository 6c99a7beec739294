package httpx

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"time"

	wishara "github.com/wishara/admin-console"
	"github.com/wishara/admin-console/config"
	"github.com/wishara/admin-console/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth          AuthServiceInterface
	Categories    *service.CategoryService
	Posts         *service.PostService
	Affirmations  *service.AffirmationService
	Communities   *service.CommunityService
	Users         *service.UserService
	Subscriptions *service.SubscriptionService
	AdminSubs     *service.AdminSubscriptionService
	Notifications *service.NotificationService
	Analytics     *service.AnalyticsService
	Audit         *service.AuditService

	// Push is nil when browser push is disabled.
	Push       PushService
	PushConfig config.PushConfig

	CookieDomain string
	Compression  CompressionConfig
	IsDev        bool // templates and static files are read from disk
	Logger       *slog.Logger
	Now          func() time.Time

	// TemplateFS overrides the template source (tests).
	TemplateFS fs.FS
}

// NewRouter builds the console's handler tree with its middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil {
		return nil, fmt.Errorf("router: Auth is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ui, err := setupUIHandlers(services, logger)
	if err != nil {
		return nil, err
	}
	static := staticFS(services.IsDev, logger)
	push := &PushHandlers{Registry: services.Push, Config: services.PushConfig, UI: ui, Static: static}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(static)))))
	// The messaging SDK registers its worker at the origin root by default.
	mux.Handle("GET /firebase-messaging-sw.js", http.HandlerFunc(push.ServiceWorker))

	registerAuthRoutes(mux, ui, services.Auth)
	registerPushRoutes(mux, push, services.Auth)
	registerUIRoutes(mux, ui, services.Auth)
	mux.Handle("/", OptionalAuth(services.Auth)(http.HandlerFunc(ui.NotFound)))

	var h http.Handler = mux
	h = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})(h)
	h = BrowserDetection()(h)
	if services.Compression.Enabled {
		h = Compression(services.Compression)(h)
	}
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h, nil
}

// setupUIHandlers creates the UI handlers. Dev mode reads templates from
// disk so edits show on reload; otherwise the embedded copy is used.
func setupUIHandlers(services RouterServices, logger *slog.Logger) (*UIHandlers, error) {
	templateFS := services.TemplateFS
	if templateFS == nil {
		if services.IsDev {
			templateFS = os.DirFS(TemplatePathFromRoot)
		} else {
			sub, err := fs.Sub(wishara.TemplateFS, TemplatePathFromRoot)
			if err != nil {
				return nil, fmt.Errorf("template filesystem: %w", err)
			}
			templateFS = sub
		}
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     logger,
		Now:        services.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}

	return &UIHandlers{
		T:               tr,
		Auth:            services.Auth,
		CategorySvc:     services.Categories,
		PostSvc:         services.Posts,
		AffirmationSvc:  services.Affirmations,
		CommunitySvc:    services.Communities,
		UserSvc:         services.Users,
		SubscriptionSvc: services.Subscriptions,
		AdminSubSvc:     services.AdminSubs,
		NotificationSvc: services.Notifications,
		AnalyticsSvc:    services.Analytics,
		AuditSvc:        services.Audit,
		CookieDomain:    services.CookieDomain,
		IsDev:           services.IsDev,
		Logger:          logger,
		Now:             services.Now,
	}, nil
}

// staticFS is frontend/static on disk in dev mode and the embedded copy otherwise.
//
//nolint:ireturn // disk or embedded depending on mode.
func staticFS(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS("frontend/static")
	}
	sub, err := fs.Sub(wishara.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", "error", err)
		return os.DirFS("frontend/static")
	}
	return sub
}

var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders marks content-hashed files immutable and everything else revalidated.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers, sessions SessionReader) {
	optional := OptionalAuth(sessions)
	mux.Handle("GET /auth/login", optional(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /auth/login", optional(http.HandlerFunc(h.Login)))
	mux.Handle("POST /auth/logout", optional(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /auth/signed-out", http.HandlerFunc(h.SignedOut))
	mux.Handle("GET /unauthorized", optional(http.HandlerFunc(h.Unauthorized)))
}

func registerPushRoutes(mux *http.ServeMux, h *PushHandlers, sessions SessionReader) {
	wrap := RequireAuth(sessions)
	mux.Handle("GET /notifications/config", wrap(http.HandlerFunc(h.WebConfig)))
	mux.Handle("GET /notifications/status", wrap(http.HandlerFunc(h.Status)))
	mux.Handle("POST /notifications/permission", wrap(http.HandlerFunc(h.Permission)))
	mux.Handle("POST /notifications/token", wrap(http.HandlerFunc(h.Token)))
	mux.Handle("POST /notifications/detach", wrap(http.HandlerFunc(h.Detach)))
}

// registerUIRoutes wires every console page. Self-service pages need a
// session; everything else needs the admin capability.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, sessions SessionReader) {
	auth := RequireAuth(sessions)
	admin := RequireAdmin(sessions)
	handle := func(pattern string, wrap func(http.Handler) http.Handler, fn http.HandlerFunc) {
		mux.Handle(pattern, wrap(fn))
	}

	handle("GET /{$}", admin, h.Dashboard)
	handle("GET /dashboard", admin, h.Dashboard)
	handle("GET /analytics", admin, h.AnalyticsPage)

	handle("GET /categories", admin, h.Categories)
	handle("GET /categories/new", admin, h.CategoryNew)
	handle("GET /categories/{id}/edit", admin, h.CategoryEdit)
	handle("POST /categories", admin, h.CategoryCreate)
	handle("POST /categories/{id}", admin, h.CategoryUpdate)
	handle("POST /categories/{id}/delete", admin, h.CategoryDelete)

	handle("GET /posts", admin, h.Posts)
	handle("GET /posts/new", admin, h.PostNew)
	handle("GET /posts/{id}", admin, h.PostView)
	handle("GET /posts/{id}/edit", admin, h.PostEdit)
	handle("POST /posts", admin, h.PostCreate)
	handle("POST /posts/{id}", admin, h.PostUpdate)
	handle("POST /posts/{id}/delete", admin, h.PostDelete)
	handle("POST /posts/{id}/comments/{commentID}/delete", admin, h.CommentDelete)

	handle("GET /affirmations", admin, h.Affirmations)
	handle("GET /affirmations/new", admin, h.AffirmationNew)
	handle("GET /affirmations/{id}/edit", admin, h.AffirmationEdit)
	handle("POST /affirmations", admin, h.AffirmationCreate)
	handle("POST /affirmations/{id}", admin, h.AffirmationUpdate)
	handle("POST /affirmations/{id}/delete", admin, h.AffirmationDelete)

	handle("GET /communities", admin, h.Communities)
	handle("GET /communities/new", admin, h.CommunityNew)
	handle("GET /communities/{id}", admin, h.CommunityView)
	handle("GET /communities/{id}/edit", admin, h.CommunityEdit)
	handle("POST /communities", admin, h.CommunityCreate)
	handle("POST /communities/{id}", admin, h.CommunityUpdate)
	handle("POST /communities/{id}/delete", admin, h.CommunityDelete)
	handle("POST /communities/{id}/members/{userID}/delete", admin, h.CommunityMemberRemove)
	handle("POST /communities/{id}/members/{userID}/role", admin, h.CommunityMemberRole)
	handle("POST /communities/{id}/posts/{postID}/delete", admin, h.CommunityPostDelete)

	handle("GET /users", admin, h.Users)
	handle("GET /users/new", admin, h.UserNew)
	handle("GET /users/{id}", admin, h.UserView)
	handle("GET /users/{id}/edit", admin, h.UserEdit)
	handle("POST /users", admin, h.UserCreate)
	handle("POST /users/bulk", admin, h.UserBulk)
	handle("POST /users/{id}", admin, h.UserUpdate)
	handle("POST /users/{id}/delete", admin, h.UserDelete)
	handle("POST /users/{id}/toggle-admin", admin, h.UserToggleAdmin)

	handle("GET /admin/subscriptions", admin, h.AdminSubscriptions)
	handle("GET /admin/subscriptions/{id}", admin, h.AdminSubscriptionView)
	handle("POST /admin/subscriptions/{id}/cancel", admin, h.AdminSubscriptionCancel)
	handle("POST /admin/subscriptions/{id}/extend", admin, h.AdminSubscriptionExtend)

	handle("GET /notifications", admin, h.Notifications)
	handle("POST /notifications/send", admin, h.NotificationSend)
	handle("POST /notifications/test", admin, h.NotificationTest)
	handle("POST /notifications/test-scheduled", admin, h.NotificationTestScheduled)

	handle("GET /audit", admin, h.Audit)

	handle("GET /profile", auth, h.Profile)
	handle("POST /profile", auth, h.ProfileUpdate)
	handle("GET /subscription", auth, h.Subscription)
	handle("POST /subscription/checkout", auth, h.SubscriptionCheckout)
	handle("POST /subscription/cancel", auth, h.SubscriptionCancel)
	handle("GET /subscription/success", auth, h.SubscriptionSuccess)
	handle("GET /subscription/cancelled", auth, h.SubscriptionCancelled)
}
