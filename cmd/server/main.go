package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/AgnesMuita/asset-maintenance-api/internal/app"
	"github.com/AgnesMuita/asset-maintenance-api/internal/bootstrap"
	"github.com/AgnesMuita/asset-maintenance-api/internal/config"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/router"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
	"github.com/AgnesMuita/asset-maintenance-api/internal/service"
)

func main() {
	root := &cobra.Command{
		Use:   "asset-maintenance-api",
		Short: "IT service management API: cases, assets, knowledge base and auth",
	}
	root.AddCommand(serveCmd(), migrateCmd(), purgeCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	// Missing .env is fine; the environment may be set by the orchestrator.
	_ = godotenv.Load()
	return config.Load(ctx)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the retention sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			logger, loggerProvider, err := observability.InitLogging(ctx, cfg)
			if err != nil {
				return err
			}
			runtime, err := observability.InitRuntime(ctx, cfg, logger, loggerProvider)
			if err != nil {
				return err
			}

			db, err := repository.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}

			var markers service.ViewMarkerStore
			var redisClient *redis.Client
			if cfg.RedisAddr != "" {
				redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
				markers = service.NewRedisViewMarkerStore(redisClient, "amapi")
			}

			set, err := bootstrap.Build(db, bootstrap.Options{
				Issuer:        cfg.JWTIssuer,
				AccessSecret:  cfg.AccessTokenSecret,
				RefreshSecret: cfg.RefreshTokenSecret,
				AccessTTL:     cfg.AccessTokenTTL,
				RefreshTTL:    cfg.RefreshTokenTTL,
				Pepper:        cfg.TokenPepper,
				MarkerTTL:     cfg.ViewMarkerTTL,
				Retention:     cfg.PurgeRetention,
				SweepInterval: cfg.PurgeSweepInterval,
				MarkerStore:   markers,
				Logger:        logger,
			})
			if err != nil {
				return err
			}

			set.Readiness.Register("db", func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			})
			if redisClient != nil {
				set.Readiness.Register("redis", func(ctx context.Context) error {
					return redisClient.Ping(ctx).Err()
				})
			}

			dep := set.RouterDependencies()
			dep.CORSOrigins = cfg.CORSOrigins
			dep.AuthRateLimitRPM = cfg.AuthRateLimitRPM
			dep.APIRateLimitRPM = cfg.APIRateLimitRPM
			dep.BodyLimitBytes = cfg.BodyLimitBytes
			dep.EnableOTelHTTP = cfg.OTELTracingEnabled

			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           router.NewRouter(dep),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return app.New(cfg, logger, server, set.Sweeper, runtime, set.Readiness).Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			db, err := repository.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			return repository.AutoMigrate(db)
		},
	}
}

func purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Run one retention sweep over soft-deleted rows and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			logger, _, err := observability.InitLogging(ctx, cfg)
			if err != nil {
				return err
			}
			db, err := repository.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			set, err := bootstrap.Build(db, bootstrap.Options{
				Issuer:        cfg.JWTIssuer,
				AccessSecret:  cfg.AccessTokenSecret,
				RefreshSecret: cfg.RefreshTokenSecret,
				AccessTTL:     cfg.AccessTokenTTL,
				RefreshTTL:    cfg.RefreshTokenTTL,
				Pepper:        cfg.TokenPepper,
				MarkerTTL:     cfg.ViewMarkerTTL,
				Retention:     cfg.PurgeRetention,
				SweepInterval: cfg.PurgeSweepInterval,
				Logger:        logger,
			})
			if err != nil {
				return err
			}
			purged := set.Sweeper.SweepOnce(ctx)
			logger.Info("retention sweep complete", "rows", purged)
			return nil
		},
	}
}
