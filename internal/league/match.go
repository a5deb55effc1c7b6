// Package league manages match lifecycle and tournament scheduling around the
// Odd/Even game engine.
package league

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oddlab/oddeven/engine"
	"github.com/oddlab/oddeven/strategy"
)

// ErrInvalidMatchState is returned when a lifecycle operation is invoked in
// an illegal match state. Like the engine's state errors, it marks a caller
// contract violation and is never retryable.
var ErrInvalidMatchState = errors.New("invalid match state")

// MatchState is the match-lifecycle state machine:
//
//	Scheduled → InvitationsSent → PlayersReady → InProgress → Completed
//
// Cancel is reachable from every pre-completion state.
type MatchState string

const (
	MatchScheduled       MatchState = "scheduled"
	MatchInvitationsSent MatchState = "invitations_sent"
	MatchPlayersReady    MatchState = "players_ready"
	MatchInProgress      MatchState = "in_progress"
	MatchCompleted       MatchState = "completed"
	MatchCancelled       MatchState = "cancelled"
)

// MatchPlayer binds a player identity to the strategy deciding its moves.
type MatchPlayer struct {
	ID       string
	Strategy strategy.Strategy
	Ready    bool
}

// Match aggregates two players and the game they play. The match owns its
// game exclusively; the game's lifecycle is a strict subset of the match's.
type Match struct {
	ID           uuid.UUID
	LeagueRound  int // round of the tournament schedule this match belongs to
	State        MatchState
	Player1      *MatchPlayer
	Player2      *MatchPlayer
	Rules        engine.GameRules
	Game         *engine.Game
	Result       *engine.GameResult
	CancelReason string

	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	log *logrus.Entry
}

// NewMatch creates a match in MatchScheduled with no players yet.
func NewMatch(rules engine.GameRules, logger *logrus.Logger) *Match {
	id := uuid.New()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Match{
		ID:        id,
		State:     MatchScheduled,
		Rules:     rules,
		CreatedAt: time.Now(),
		log:       logger.WithField("match_id", id),
	}
}

// SetPlayers registers both participants and moves the match to
// MatchInvitationsSent. Only legal from MatchScheduled.
func (m *Match) SetPlayers(p1, p2 *MatchPlayer) error {
	if m.State != MatchScheduled {
		return fmt.Errorf("%w: set_players in state %s", ErrInvalidMatchState, m.State)
	}
	if p1 == nil || p2 == nil || p1.ID == "" || p2.ID == "" {
		return fmt.Errorf("%w: both players must be set", ErrInvalidMatchState)
	}
	if p1.ID == p2.ID {
		return fmt.Errorf("%w: players must be distinct (got %q twice)", ErrInvalidMatchState, p1.ID)
	}
	m.Player1, m.Player2 = p1, p2
	m.State = MatchInvitationsSent
	m.log.WithFields(logrus.Fields{"player1": p1.ID, "player2": p2.ID}).Info("players invited")
	return nil
}

// MarkPlayerReady records a player's readiness. Idempotent per player;
// returns true exactly when both players are ready, at which point the match
// transitions to MatchPlayersReady.
func (m *Match) MarkPlayerReady(playerID string) (bool, error) {
	if m.State != MatchInvitationsSent && m.State != MatchPlayersReady {
		return false, fmt.Errorf("%w: mark_ready in state %s", ErrInvalidMatchState, m.State)
	}
	switch playerID {
	case m.Player1.ID:
		m.Player1.Ready = true
	case m.Player2.ID:
		m.Player2.Ready = true
	default:
		return false, fmt.Errorf("%w: %q is not a participant of match %s", engine.ErrUnknownPlayer, playerID, m.ID)
	}

	if m.Player1.Ready && m.Player2.Ready {
		first := m.State != MatchPlayersReady
		m.State = MatchPlayersReady
		return first, nil
	}
	return false, nil
}

// CreateGame builds the owned game instance. player1Role assigns player 1's
// parity; player 2 holds the opposite. Fails until players are set.
func (m *Match) CreateGame(player1Role engine.Parity) error {
	if m.Player1 == nil || m.Player2 == nil {
		return fmt.Errorf("%w: create_game before players set", ErrInvalidMatchState)
	}
	if m.Game != nil {
		return fmt.Errorf("%w: game already created for match %s", ErrInvalidMatchState, m.ID)
	}
	m.Game = engine.NewGame(m.ID.String(), m.Player1.ID, m.Player2.ID, player1Role, m.Rules)
	return nil
}

// Start moves the match into play. Only legal from MatchPlayersReady with a
// created game; also starts the owned game.
func (m *Match) Start() error {
	if m.State != MatchPlayersReady {
		return fmt.Errorf("%w: start in state %s", ErrInvalidMatchState, m.State)
	}
	if m.Game == nil {
		return fmt.Errorf("%w: start before create_game", ErrInvalidMatchState)
	}
	if err := m.Game.Start(); err != nil {
		return err
	}
	m.State = MatchInProgress
	m.StartedAt = time.Now()
	m.log.Info("match started")
	return nil
}

// Complete records the final result and freezes the match.
func (m *Match) Complete(result engine.GameResult) error {
	if m.State != MatchInProgress {
		return fmt.Errorf("%w: complete in state %s", ErrInvalidMatchState, m.State)
	}
	m.Result = &result
	m.State = MatchCompleted
	m.CompletedAt = time.Now()
	m.log.WithFields(logrus.Fields{
		"winner": result.WinnerID,
		"score":  fmt.Sprintf("%d-%d", result.Player1Score, result.Player2Score),
		"reason": result.Reason,
	}).Info("match completed")
	return nil
}

// Cancel aborts the match from any pre-completion state.
func (m *Match) Cancel(reason string) error {
	if m.State == MatchCompleted || m.State == MatchCancelled {
		return fmt.Errorf("%w: cancel in state %s", ErrInvalidMatchState, m.State)
	}
	m.State = MatchCancelled
	m.CancelReason = reason
	m.CompletedAt = time.Now()
	m.log.WithField("reason", reason).Warn("match cancelled")
	return nil
}

// ToMap renders the match as plain nested primitives for serialization.
func (m *Match) ToMap() map[string]any {
	out := map[string]any{
		"match_id":     m.ID.String(),
		"league_round": m.LeagueRound,
		"state":        string(m.State),
		"created_at":   m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.Player1 != nil {
		out["player1_id"] = m.Player1.ID
	}
	if m.Player2 != nil {
		out["player2_id"] = m.Player2.ID
	}
	if !m.StartedAt.IsZero() {
		out["started_at"] = m.StartedAt.UTC().Format(time.RFC3339)
	}
	if !m.CompletedAt.IsZero() {
		out["completed_at"] = m.CompletedAt.UTC().Format(time.RFC3339)
	}
	if m.Result != nil {
		out["result"] = m.Result.ToMap()
	}
	if m.CancelReason != "" {
		out["cancel_reason"] = m.CancelReason
	}
	return out
}
