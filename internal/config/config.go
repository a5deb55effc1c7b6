// Package config loads arena configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the arena process. Postgres, Redis and the
// stream listener are optional: empty values leave the corresponding sink
// disabled.
type Config struct {
	TotalRounds int
	MinValue    int
	MaxValue    int
	MoveTimeout time.Duration

	TournamentSeed int64

	PostgresDSN string
	RedisAddr   string
	RedisQueue  string
	StreamAddr  string

	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; a missing file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TotalRounds:    10,
		MinValue:       1,
		MaxValue:       10,
		MoveTimeout:    5 * time.Second,
		TournamentSeed: 1,
		RedisQueue:     "oddeven:actions",
		LogLevel:       "info",
	}

	var err error
	if cfg.TotalRounds, err = intEnv("ODDEVEN_TOTAL_ROUNDS", cfg.TotalRounds); err != nil {
		return Config{}, err
	}
	if cfg.MinValue, err = intEnv("ODDEVEN_MIN_VALUE", cfg.MinValue); err != nil {
		return Config{}, err
	}
	if cfg.MaxValue, err = intEnv("ODDEVEN_MAX_VALUE", cfg.MaxValue); err != nil {
		return Config{}, err
	}
	if cfg.MoveTimeout, err = durationEnv("ODDEVEN_MOVE_TIMEOUT", cfg.MoveTimeout); err != nil {
		return Config{}, err
	}
	seed, err := intEnv("ODDEVEN_TOURNAMENT_SEED", int(cfg.TournamentSeed))
	if err != nil {
		return Config{}, err
	}
	cfg.TournamentSeed = int64(seed)

	cfg.PostgresDSN = os.Getenv("ODDEVEN_POSTGRES_DSN")
	if v := os.Getenv("ODDEVEN_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("ODDEVEN_REDIS_QUEUE"); v != "" {
		cfg.RedisQueue = v
	}
	cfg.StreamAddr = os.Getenv("ODDEVEN_STREAM_ADDR")
	if v := os.Getenv("ODDEVEN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.MinValue > cfg.MaxValue {
		return Config{}, fmt.Errorf("config: min value %d exceeds max value %d", cfg.MinValue, cfg.MaxValue)
	}
	if cfg.TotalRounds <= 0 {
		return Config{}, fmt.Errorf("config: total rounds must be positive, got %d", cfg.TotalRounds)
	}
	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration", key, v)
	}
	return d, nil
}
