package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/wishara/admin-console/config"
	"github.com/wishara/admin-console/internal/bootstrap"
)

// commandContext is built once per invocation in PersistentPreRunE.
type commandContext struct {
	Logger *slog.Logger
	Config config.AppConfig

	pool  *pgxpool.Pool
	redis redis.UniversalClient
}

type ctxKey struct{}

var (
	errRedisRequired    = errors.New("sessions live in Redis; set REDIS_ENABLED=true")
	errPostgresRequired = errors.New("the audit log lives in Postgres; set DB_ENABLED=true")
)

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "wishara-ctl",
		Short:         "Operator tasks for the Wishara admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			cfg, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, &commandContext{Logger: logger, Config: cfg}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if cc, ok := cmd.Context().Value(ctxKey{}).(*commandContext); ok {
				cc.close()
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newLoginCmd(),
		newSessionsCmd(),
		newNotifyCmd(),
		newAuditCmd(),
		newMigrateCmd(),
	)
	return root
}

func fromCmd(cmd *cobra.Command) (*commandContext, error) {
	cc, ok := cmd.Context().Value(ctxKey{}).(*commandContext)
	if !ok {
		return nil, errors.New("command context not initialised")
	}
	return cc, nil
}

// postgres connects lazily; the pool is closed after the command.
func (cc *commandContext) postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if cc.pool != nil {
		return cc.pool, nil
	}
	if !cc.Config.Postgres.Enabled {
		return nil, errPostgresRequired
	}
	pool, err := bootstrap.ConnectPostgres(ctx, bootstrap.DatabaseConfig{DBConfig: cc.Config.Postgres, Logger: cc.Logger})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	cc.pool = pool
	return pool, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func (cc *commandContext) redisClient(ctx context.Context) (redis.UniversalClient, error) {
	if cc.redis != nil {
		return cc.redis, nil
	}
	if !cc.Config.Redis.Enabled {
		return nil, errRedisRequired
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{RedisConfig: cc.Config.Redis, Logger: cc.Logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	cc.redis = client
	return client, nil
}

// services builds the console services over the shared Redis session store.
// Browser push is never started from the CLI.
func (cc *commandContext) services(ctx context.Context) (bootstrap.ServiceContainer, error) {
	client, err := cc.redisClient(ctx)
	if err != nil {
		return bootstrap.ServiceContainer{}, err
	}
	cfg := cc.Config
	cfg.Push.Enabled = false
	deps := &bootstrap.ServiceDeps{Config: &cfg, RedisClient: client, Logger: cc.Logger}
	if cfg.Postgres.Enabled {
		if deps.Pool, err = cc.postgres(ctx); err != nil {
			return bootstrap.ServiceContainer{}, err
		}
	}
	return bootstrap.NewServices(deps)
}

func (cc *commandContext) close() {
	if cc.pool != nil {
		cc.pool.Close()
	}
	if cc.redis != nil {
		if err := cc.redis.Close(); err != nil {
			cc.Logger.Warn("close redis failed", "error", err)
		}
	}
}
