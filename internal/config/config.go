package config

import (
	"fmt"
	"os"
	"strconv"

	"arena-league/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath            string
	ServerPort        string
	LogLevel          string
	RedisURL          string
	WebhookURL        string
	SimulationSeed    uint64
	SimulationWorkers int
	SchedulerEnabled  bool
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:     getEnv("DB_PATH", "arena.db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		RedisURL:   getEnv("REDIS_URL", ""),
		WebhookURL: getEnv("WEBHOOK_URL", ""),
	}

	var err error
	if cfg.SimulationSeed, err = strconv.ParseUint(getEnv("SIMULATION_SEED", "0"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid SIMULATION_SEED: %w", err)
	}
	if cfg.SimulationWorkers, err = strconv.Atoi(getEnv("SIMULATION_WORKERS", strconv.Itoa(constants.DefaultSimulationWorkers))); err != nil {
		return nil, fmt.Errorf("invalid SIMULATION_WORKERS: %w", err)
	}
	if cfg.SimulationWorkers < 1 {
		return nil, fmt.Errorf("SIMULATION_WORKERS must be at least 1, got %d", cfg.SimulationWorkers)
	}
	if cfg.SchedulerEnabled, err = strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("redis", cfg.RedisURL != "").
		Bool("webhook", cfg.WebhookURL != "").
		Bool("fixed_seed", cfg.SimulationSeed != 0).
		Int("simulation_workers", cfg.SimulationWorkers).
		Bool("scheduler_enabled", cfg.SchedulerEnabled).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
