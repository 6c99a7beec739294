package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/wishara/admin-console/config"
	"github.com/wishara/admin-console/internal/adapters/backendauth"
	"github.com/wishara/admin-console/internal/adapters/devauth"
	"github.com/wishara/admin-console/internal/adapters/memory"
	redisadapter "github.com/wishara/admin-console/internal/adapters/redis"
	"github.com/wishara/admin-console/internal/observability/statsd"
	"github.com/wishara/admin-console/internal/ports"
	"github.com/wishara/admin-console/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth config.AuthConfig
	// API verifies credentials in backend mode.
	API backendauth.Doer
	// RedisClient is optional; sessions stay in process memory without it.
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	Metrics     statsd.Sink
}

// BuildAuthService creates the auth service for the configured login mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	verifier, err := buildVerifier(cfg)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Verifier: verifier,
		Sessions: buildSessionStore(cfg, logger),
		Config: service.AuthServiceConfig{
			SessionTTL: cfg.Auth.SessionTTL,
			Logger:     logger,
			Metrics:    cfg.Metrics,
		},
	}), nil
}

//nolint:ireturn // the verifier is chosen by AUTH_MODE.
func buildVerifier(cfg AuthConfig) (ports.CredentialVerifier, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			Identifier:      cfg.Auth.DevAuth.Identifier,
			Password:        cfg.Auth.DevAuth.Password,
			UserID:          cfg.Auth.DevAuth.UserID,
			IsAdmin:         cfg.Auth.DevAuth.IsAdmin,
			SessionDuration: cfg.Auth.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("dev auth provider: %w", err)
		}
		return prov, nil
	case config.AuthModeBackend, "":
		if cfg.API == nil {
			return nil, fmt.Errorf("backend auth requires an API client")
		}
		return backendauth.NewVerifier(cfg.API), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

//nolint:ireturn // redis or memory depending on configuration.
func buildSessionStore(cfg AuthConfig, logger *slog.Logger) ports.SessionStore {
	if cfg.RedisClient == nil {
		logger.Warn("redis not configured; sessions are kept in memory and lost on restart")
		return memory.NewSessionStore()
	}
	return redisadapter.NewSessionStore(cfg.RedisClient, cfg.Auth.SessionKeyPrefix)
}
