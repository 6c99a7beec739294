package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wishara/admin-console/config"
	"github.com/wishara/admin-console/internal/adapters/fcm"
	"github.com/wishara/admin-console/internal/adapters/memory"
	"github.com/wishara/admin-console/internal/adapters/postgres"
	redisadapter "github.com/wishara/admin-console/internal/adapters/redis"
	"github.com/wishara/admin-console/internal/backend"
	"github.com/wishara/admin-console/internal/observability/statsd"
	"github.com/wishara/admin-console/internal/ports"
	"github.com/wishara/admin-console/internal/service"
	"github.com/wishara/admin-console/internal/service/pushtoken"
)

const (
	shutdownWaitTimeout = 10 * time.Second
	auditRingCapacity   = 2000
)

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	API           *backend.Client
	Auth          *service.AuthService
	Audit         *service.AuditService
	Categories    *service.CategoryService
	Posts         *service.PostService
	Affirmations  *service.AffirmationService
	Communities   *service.CommunityService
	Users         *service.UserService
	Subscriptions *service.SubscriptionService
	AdminSubs     *service.AdminSubscriptionService
	Notifications *service.NotificationService
	Analytics     *service.AnalyticsService

	// Push is nil when PUSH_ENABLED=false.
	Push *pushtoken.Registry

	Metrics statsd.Sink
}

// ServiceDeps contains the infrastructure services are built on.
type ServiceDeps struct {
	Config *config.AppConfig
	// Pool is optional; the audit log is kept in memory without it.
	Pool *pgxpool.Pool
	// RedisClient is optional; sessions and push reports are kept in memory without it.
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	// Transport overrides the API client's round tripper (tests).
	Transport http.RoundTripper
}

// BuildMetrics returns the StatsD sink, or a no-op sink when metrics are disabled
// or the sink cannot be created.
//
//nolint:ireturn // Sink is Noop or a dialled client.
func BuildMetrics(logger *slog.Logger, cfg config.ObservabilityConfig) statsd.Sink {
	sink, err := statsd.New(statsd.Config{
		Enabled: cfg.Metrics.IsEnabled(),
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return statsd.Noop{}
	}
	return sink
}

//nolint:ireturn // postgres or memory depending on configuration.
func buildAuditRepo(pool *pgxpool.Pool, logger *slog.Logger) ports.AuditRepository {
	if pool == nil {
		logger.Info("audit log kept in memory", "capacity", auditRingCapacity)
		return memory.NewAuditRing(auditRingCapacity)
	}
	return postgres.NewAuditRepo(pool)
}

//nolint:ireturn // redis or memory depending on configuration.
func buildReportStore(client redis.UniversalClient, ttl time.Duration) ports.BrowserReportStore {
	if client == nil {
		return memory.NewReportStore()
	}
	return redisadapter.NewReportStore(client, ttl)
}

func buildPushRegistry(cfg *config.AppConfig, api *backend.Client, client redis.UniversalClient, sessions pushtoken.SessionReader, logger *slog.Logger, sink statsd.Sink) *pushtoken.Registry {
	if !cfg.Push.Enabled {
		logger.Info("browser push disabled")
		return nil
	}
	reports := buildReportStore(client, cfg.Auth.SessionTTL)
	return pushtoken.NewRegistry(pushtoken.RegistryOptions{
		Reports:   reports,
		Registrar: fcm.NewAPIRegistrar(api),
		Sources: func(sessionID string) ports.TokenSource {
			return fcm.NewBrowserSource(sessionID, reports)
		},
		Sessions: sessions,
		Config: pushtoken.Config{
			RetryDelay:      cfg.Push.RetryDelay,
			RefreshInterval: cfg.Push.RefreshInterval,
			Logger:          logger,
			Metrics:         sink,
		},
	})
}

// NewServices builds the API client and every service on top of it, and
// links session teardown to the client's 401 handling.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps missing AppConfig")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := BuildMetrics(logger, cfg.Observability)

	api, err := backend.New(backend.Options{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.Backend.UserAgent,
		Transport: deps.Transport,
		Logger:    logger,
		Metrics:   sink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("backend client: %w", err)
	}

	auth, err := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		API:         api,
		RedisClient: deps.RedisClient,
		Logger:      logger,
		Metrics:     sink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("auth service: %w", err)
	}
	api.OnUnauthorized(auth.Teardown)

	registry := buildPushRegistry(cfg, api, deps.RedisClient, auth, logger, sink)
	if registry != nil {
		auth.SetPush(registry)
	}

	audit := service.NewAuditService(service.AuditServiceOptions{
		Repo:   buildAuditRepo(deps.Pool, logger),
		Logger: logger,
	})
	res := service.ResourceOptions{API: api, Audit: audit, Logger: logger}

	return ServiceContainer{
		API:           api,
		Auth:          auth,
		Audit:         audit,
		Categories:    service.NewCategoryService(res),
		Posts:         service.NewPostService(res),
		Affirmations:  service.NewAffirmationService(res),
		Communities:   service.NewCommunityService(res),
		Users:         service.NewUserService(res),
		Subscriptions: service.NewSubscriptionService(res),
		AdminSubs:     service.NewAdminSubscriptionService(res),
		Notifications: service.NewNotificationService(res, time.Local),
		Analytics:     service.NewAnalyticsService(res, time.Local),
		Push:          registry,
		Metrics:       sink,
	}, nil
}

// ServiceOrchestrationConfig contains everything needed to run the console.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until a shutdown
// signal arrives or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return err
	}

	return waitForShutdown(shutdownConfig{
		errCh:    errCh,
		server:   server,
		registry: cfg.Services.Push,
		logger:   logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	errCh    <-chan error
	server   *http.Server
	registry *pushtoken.Registry
	logger   *slog.Logger
}

// waitForShutdown waits for a shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("server error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains HTTP traffic, then cancels every token manager.
func gracefulStop(cfg shutdownConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()

	var errs []error
	if err := ShutdownHTTPServer(ShutdownConfig{Context: ctx, Server: cfg.server, Logger: cfg.logger}); err != nil {
		errs = append(errs, err)
	}
	if cfg.registry != nil {
		if err := cfg.registry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("push registry: %w", err))
		}
	}
	return errors.Join(errs...)
}
