package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AgnesMuita/asset-maintenance-api/internal/config"
	"github.com/AgnesMuita/asset-maintenance-api/internal/health"
	"github.com/AgnesMuita/asset-maintenance-api/internal/maintenance"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Sweeper       *maintenance.Sweeper
	Observability *observability.Runtime
	Readiness     *health.ProbeRunner

	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, sweeper *maintenance.Sweeper, runtime *observability.Runtime, readiness *health.ProbeRunner) *App {
	return &App{
		Config:                       cfg,
		Logger:                       logger,
		Server:                       server,
		Sweeper:                      sweeper,
		Observability:                runtime,
		Readiness:                    readiness,
		ShutdownTimeout:              cfg.ShutdownTimeout,
		ShutdownHTTPDrainTimeout:     cfg.ShutdownHTTPDrainTimeout,
		ShutdownObservabilityTimeout: cfg.ShutdownObservabilityTimeout,
	}
}

// Run serves HTTP and the retention sweeper until the context is cancelled,
// then drains in-flight requests and flushes observability exporters.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "http server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if a.Sweeper != nil {
		g.Go(func() error {
			if err := a.Sweeper.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownHTTPDrainTimeout)
		defer cancel()
		a.Logger.Info("draining http server", "timeout", a.ShutdownHTTPDrainTimeout)
		if err := a.Server.Shutdown(drainCtx); err != nil {
			a.Logger.Warn("http drain incomplete, closing", "error", err)
			return a.Server.Close()
		}
		return nil
	})

	err := g.Wait()

	if a.Observability != nil {
		obsCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownObservabilityTimeout)
		defer cancel()
		if shutdownErr := a.Observability.Shutdown(obsCtx); shutdownErr != nil {
			a.Logger.Warn("observability shutdown incomplete", "error", shutdownErr)
		}
	}
	return err
}
