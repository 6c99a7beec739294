package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wishara/admin-console/config"
	httpx "github.com/wishara/admin-console/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// ErrCh receives the server's terminal error, if any.
	ErrCh chan<- error
}

// RouterServices maps the container onto the router's dependencies.
func RouterServices(cfg *config.AppConfig, svc ServiceContainer, logger *slog.Logger) httpx.RouterServices {
	rs := httpx.RouterServices{
		Auth:          svc.Auth,
		Categories:    svc.Categories,
		Posts:         svc.Posts,
		Affirmations:  svc.Affirmations,
		Communities:   svc.Communities,
		Users:         svc.Users,
		Subscriptions: svc.Subscriptions,
		AdminSubs:     svc.AdminSubs,
		Notifications: svc.Notifications,
		Analytics:     svc.Analytics,
		Audit:         svc.Audit,
		PushConfig:    cfg.Push,
		CookieDomain:  cfg.HTTP.CookieDomain,
		Compression: httpx.CompressionConfig{
			Enabled: cfg.HTTP.CompressionEnabled,
			Level:   cfg.HTTP.CompressionLevel,
		},
		IsDev:  cfg.IsDev,
		Logger: logger,
	}
	// A nil *Registry must not become a non-nil interface.
	if svc.Push != nil {
		rs.Push = svc.Push
	}
	return rs
}

// StartHTTPServer builds the router and starts serving in the background.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := httpx.NewRouter(RouterServices(cfg.Config, cfg.Services, logger))
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	if cfg.Config.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.Config.HTTP.CompressionLevel)
	}

	return startServer(logger, handler, cfg.Config.HTTP.Addr, cfg.ErrCh), nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				errCh <- err
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Server.Shutdown(ctx); err != nil {
		return err
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
