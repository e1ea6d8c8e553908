package fx

import (
	"database/sql"

	"arena-league/internal/config"
	"arena-league/internal/database"
	"arena-league/internal/db"
	"arena-league/internal/engine"
	"arena-league/internal/logger"
	"arena-league/internal/notify"
	"arena-league/internal/repository"
	"arena-league/internal/scheduler"
	"arena-league/internal/server"
	"arena-league/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// ProvideSource seeds the match draw. SIMULATION_SEED=0 picks a random seed.
func ProvideSource(cfg *config.Config, log zerolog.Logger) (engine.Source, error) {
	seed := cfg.SimulationSeed
	if seed == 0 {
		var err error
		if seed, err = engine.NewSeed(); err != nil {
			return nil, err
		}
	}
	log.Info().Uint64("seed", seed).Msg("simulation source seeded")
	return engine.NewSource(seed), nil
}

func ApplyLogLevel(cfg *config.Config, log zerolog.Logger) error {
	level, err := logger.SetLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.Debug().Str("level", level.String()).Msg("log level applied")
	return nil
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Invoke(ApplyLogLevel),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// storage
	fx.Provide(repository.NewStore),
	// engine
	fx.Provide(ProvideSource),
	fx.Provide(engine.NewSimulator),
	fx.Provide(notify.New),
	// svc
	fx.Provide(service.NewHeroService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewEventService),
	fx.Provide(service.NewBootcampService),
	// jobs and server
	fx.Provide(scheduler.New),
	fx.Provide(server.New),
)
