// Package referee drives a single match end to end: it awaits each player's
// strategy sequentially, enforces per-move deadlines, and feeds moves through
// the game state machine until a result exists.
package referee

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oddlab/oddeven/engine"
	"github.com/oddlab/oddeven/internal/league"
	"github.com/oddlab/oddeven/strategy"
)

// ActionSink receives an append-only stream of match actions, typically
// destined for an external historian. Implementations must not block the
// match: publish asynchronously or with short internal timeouts.
type ActionSink interface {
	LogAction(ctx context.Context, matchID uuid.UUID, index int, actionType string, payload map[string]any)
}

// EventSink receives public match events for live spectators.
type EventSink interface {
	BroadcastEvent(eventType string, matchID uuid.UUID, payload map[string]any)
}

// Referee orchestrates matches. Sinks are optional; a nil sink disables that
// output. The referee performs no retries: strategy failures forfeit the
// offender and state-machine violations surface as errors.
type Referee struct {
	moveTimeout time.Duration
	actions     ActionSink
	events      EventSink
	log         *logrus.Entry
}

// New creates a referee. moveTimeout bounds each DecideMove call; zero
// disables the per-move deadline.
func New(moveTimeout time.Duration, actions ActionSink, events EventSink, logger *logrus.Logger) *Referee {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Referee{
		moveTimeout: moveTimeout,
		actions:     actions,
		events:      events,
		log:         logger.WithField("component", "referee"),
	}
}

// RunMatch plays a started match to completion and returns its result.
// The match must be in MatchInProgress with its game already started.
func (r *Referee) RunMatch(ctx context.Context, m *league.Match) (engine.GameResult, error) {
	if m.State != league.MatchInProgress || m.Game == nil {
		return engine.GameResult{}, fmt.Errorf("referee: match %s not in progress", m.ID)
	}
	g := m.Game
	log := r.log.WithField("match_id", m.ID)
	actionIndex := 0

	for g.Phase == engine.PhaseCollectingChoices {
		if err := ctx.Err(); err != nil {
			if cErr := m.Cancel("context cancelled"); cErr != nil {
				log.WithError(cErr).Error("cancel failed after context error")
			}
			return engine.GameResult{}, fmt.Errorf("referee: match %s aborted: %w", m.ID, err)
		}

		round := g.CurrentRound
		for _, p := range []*league.MatchPlayer{m.Player1, m.Player2} {
			move, err := r.decide(ctx, g, m, p)
			if err != nil {
				// Deadline expiry is a timeout, anything else a forfeit.
				abandon := g.Forfeit
				actionType := "player_forfeit"
				if ctx.Err() == context.DeadlineExceeded || err == context.DeadlineExceeded {
					abandon = g.Timeout
					actionType = "player_timeout"
				}
				log.WithError(err).WithField("player", p.ID).Warn("strategy failed to decide")
				if aErr := abandon(p.ID); aErr != nil {
					return engine.GameResult{}, aErr
				}
				actionIndex++
				r.logAction(ctx, m.ID, actionIndex, actionType, map[string]any{"player_id": p.ID, "round": round})
				break
			}

			both, err := g.SubmitMove(p.ID, move)
			if err != nil {
				// The strategy produced an illegal move; it forfeits.
				log.WithError(err).WithField("player", p.ID).Warn("illegal move submitted")
				if fErr := g.Forfeit(p.ID); fErr != nil {
					return engine.GameResult{}, fErr
				}
				actionIndex++
				r.logAction(ctx, m.ID, actionIndex, "player_forfeit", map[string]any{"player_id": p.ID, "round": round})
				break
			}
			actionIndex++
			r.logAction(ctx, m.ID, actionIndex, "move_submitted", map[string]any{"player_id": p.ID, "round": round})

			if both {
				rr, err := g.ResolveRound()
				if err != nil {
					return engine.GameResult{}, err
				}
				actionIndex++
				r.logAction(ctx, m.ID, actionIndex, "round_resolved", rr.ToMap())
				r.broadcast("round_resolved", m.ID, rr.ToMap())
			}
		}
	}

	result, err := g.Result()
	if err != nil {
		return engine.GameResult{}, err
	}
	if err := m.Complete(result); err != nil {
		return engine.GameResult{}, err
	}
	r.broadcast("match_completed", m.ID, result.ToMap())
	return result, nil
}

// decide awaits one strategy decision under the per-move deadline. The
// deterministic strategies return immediately; the goroutine-and-select shape
// exists for external strategies that may block on I/O.
func (r *Referee) decide(ctx context.Context, g *engine.Game, m *league.Match, p *league.MatchPlayer) (int, error) {
	if r.moveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.moveTimeout)
		defer cancel()
	}

	req := buildRequest(g, m, p)
	type answer struct {
		move int
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		mv, err := p.Strategy.DecideMove(ctx, req)
		ch <- answer{mv, err}
	}()

	select {
	case a := <-ch:
		return a.move, a.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// buildRequest projects the game's round history into the deciding player's
// perspective.
func buildRequest(g *engine.Game, m *league.Match, p *league.MatchPlayer) strategy.Request {
	isPlayer1 := p.ID == g.Player1ID
	role := g.Player1Role
	myScore, oppScore := g.Player1Score, g.Player2Score
	if !isPlayer1 {
		role = role.Opposite()
		myScore, oppScore = oppScore, myScore
	}

	history := g.History()
	views := make([]strategy.RoundView, len(history))
	for i, rr := range history {
		myMove, oppMove := rr.Player1Move, rr.Player2Move
		if !isPlayer1 {
			myMove, oppMove = oppMove, myMove
		}
		views[i] = strategy.RoundView{
			Round:        rr.Round,
			MyMove:       myMove,
			OpponentMove: oppMove,
			Sum:          rr.Sum,
			WinnerID:     rr.WinnerID,
		}
	}

	return strategy.Request{
		GameID:        g.ID,
		PlayerID:      p.ID,
		Round:         g.CurrentRound,
		Role:          role,
		MyScore:       myScore,
		OpponentScore: oppScore,
		History:       views,
	}
}

func (r *Referee) logAction(ctx context.Context, matchID uuid.UUID, index int, actionType string, payload map[string]any) {
	if r.actions != nil {
		r.actions.LogAction(ctx, matchID, index, actionType, payload)
	}
}

func (r *Referee) broadcast(eventType string, matchID uuid.UUID, payload map[string]any) {
	if r.events != nil {
		r.events.BroadcastEvent(eventType, matchID, payload)
	}
}
