// Package database persists completed matches to Postgres via pgx.
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oddlab/oddeven/internal/league"
)

const schema = `
CREATE TABLE IF NOT EXISTS match_results (
	match_id     UUID PRIMARY KEY,
	league_round INT NOT NULL,
	player1_id   TEXT NOT NULL,
	player2_id   TEXT NOT NULL,
	winner_id    TEXT,
	reason       TEXT NOT NULL,
	detail       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Store wraps a pgx connection pool for match persistence. It satisfies
// league.ResultStore.
type Store struct {
	pool *pgxpool.Pool
	log  *logrus.Entry
}

// Connect opens a pool against dsn, verifies connectivity and ensures the
// schema exists.
func Connect(ctx context.Context, dsn string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database: ensure schema: %w", err)
	}
	return &Store{pool: pool, log: logger.WithField("component", "database")}, nil
}

// SaveMatchResult upserts one completed (or cancelled) match, storing the
// full serialized match as JSONB detail alongside the queryable columns.
func (s *Store) SaveMatchResult(ctx context.Context, m *league.Match) error {
	detail, err := json.Marshal(m.ToMap())
	if err != nil {
		return fmt.Errorf("database: marshal match %s: %w", m.ID, err)
	}

	var winnerID, reason string
	if m.Result != nil {
		winnerID = m.Result.WinnerID
		reason = string(m.Result.Reason)
	} else {
		reason = "cancelled"
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO match_results (match_id, league_round, player1_id, player2_id, winner_id, reason, detail)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		ON CONFLICT (match_id) DO UPDATE
		SET winner_id = EXCLUDED.winner_id, reason = EXCLUDED.reason, detail = EXCLUDED.detail`,
		m.ID, m.LeagueRound, m.Player1.ID, m.Player2.ID, winnerID, reason, detail)
	if err != nil {
		return fmt.Errorf("database: save match %s: %w", m.ID, err)
	}
	s.log.WithField("match_id", m.ID).Debug("match result persisted")
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}
