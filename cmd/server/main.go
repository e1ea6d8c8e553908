package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"arena-league/internal/config"
	"arena-league/internal/constants"
	fxmodules "arena-league/internal/fx"
	"arena-league/internal/notify"
	"arena-league/internal/scheduler"
	"arena-league/internal/server"
	"arena-league/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(closeOnStop),
		fx.Invoke(seedHeroes),
		fx.Invoke(runScheduler),
		fx.Invoke(runServer),
	).Run()
}

// closeOnStop is registered first so it runs after the server and the
// scheduler have stopped.
func closeOnStop(lc fx.Lifecycle, notifier notify.Notifier, db *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if c, ok := notifier.(io.Closer); ok {
				if err := c.Close(); err != nil {
					logger.Warn().Err(err).Msg("error closing notifier")
				}
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}

func seedHeroes(lc fx.Lifecycle, heroes *service.HeroService) {
	lc.Append(fx.Hook{
		OnStart: heroes.SeedCatalog,
	})
}

func runScheduler(lc fx.Lifecycle, s *scheduler.Scheduler, cfg *config.Config, logger zerolog.Logger) {
	if !cfg.SchedulerEnabled {
		logger.Info().Msg("scheduler disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop()
		},
	})
}

func runServer(
	lc fx.Lifecycle,
	api *server.Server,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: api.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
