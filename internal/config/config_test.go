package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.TotalRounds)
	assert.Equal(t, 1, cfg.MinValue)
	assert.Equal(t, 10, cfg.MaxValue)
	assert.Equal(t, 5*time.Second, cfg.MoveTimeout)
	assert.Equal(t, int64(1), cfg.TournamentSeed)
	assert.Equal(t, "oddeven:actions", cfg.RedisQueue)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.StreamAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ODDEVEN_TOTAL_ROUNDS", "7")
	t.Setenv("ODDEVEN_MIN_VALUE", "2")
	t.Setenv("ODDEVEN_MAX_VALUE", "20")
	t.Setenv("ODDEVEN_MOVE_TIMEOUT", "250ms")
	t.Setenv("ODDEVEN_TOURNAMENT_SEED", "99")
	t.Setenv("ODDEVEN_POSTGRES_DSN", "postgres://localhost/oddeven")
	t.Setenv("ODDEVEN_REDIS_ADDR", "localhost:6379")
	t.Setenv("ODDEVEN_REDIS_QUEUE", "custom:queue")
	t.Setenv("ODDEVEN_STREAM_ADDR", ":8081")
	t.Setenv("ODDEVEN_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.TotalRounds)
	assert.Equal(t, 2, cfg.MinValue)
	assert.Equal(t, 20, cfg.MaxValue)
	assert.Equal(t, 250*time.Millisecond, cfg.MoveTimeout)
	assert.Equal(t, int64(99), cfg.TournamentSeed)
	assert.Equal(t, "postgres://localhost/oddeven", cfg.PostgresDSN)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "custom:queue", cfg.RedisQueue)
	assert.Equal(t, ":8081", cfg.StreamAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("ODDEVEN_TOTAL_ROUNDS", "many")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("ODDEVEN_MOVE_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadValidatesRange(t *testing.T) {
	t.Setenv("ODDEVEN_MIN_VALUE", "10")
	t.Setenv("ODDEVEN_MAX_VALUE", "1")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadValidatesRounds(t *testing.T) {
	t.Setenv("ODDEVEN_TOTAL_ROUNDS", "0")
	_, err := Load()
	assert.Error(t, err)
}
