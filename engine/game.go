// Package engine implements the Odd/Even matching-pennies game rules.
//
// The package is dependency-free and holds no goroutines, timers or I/O: it
// is a deterministic state machine driven entirely by its caller (the
// referee). All contract violations surface as wrapped sentinel errors at the
// violating call.
package engine

import (
	"fmt"
	"time"
)

// Game is the authoritative state machine for one Odd/Even game instance.
//
// It is not safe for concurrent use; the orchestrator awaits each player's
// decision sequentially and mutates the game only between those calls.
// Duplicate and out-of-phase submissions are rejected regardless, so an
// interleaved caller fails loudly instead of corrupting state.
type Game struct {
	ID          string
	Rules       GameRules
	Player1ID   string
	Player2ID   string
	Player1Role Parity

	Phase        Phase
	CurrentRound int
	Player1Score int
	Player2Score int

	currentMoves map[string]Move // transient, cleared every round
	history      []RoundResult   // append-only
	result       *GameResult     // set exactly once, on finish
	startedAt    time.Time
}

// NewGame creates a game in PhaseWaitingForPlayers. player1Role is the parity
// role of player 1; player 2 implicitly holds the opposite role.
func NewGame(id, player1ID, player2ID string, player1Role Parity, rules GameRules) *Game {
	return &Game{
		ID:           id,
		Rules:        rules,
		Player1ID:    player1ID,
		Player2ID:    player2ID,
		Player1Role:  player1Role,
		Phase:        PhaseWaitingForPlayers,
		currentMoves: make(map[string]Move, 2),
	}
}

// Start transitions the game into its first round.
// Only legal from PhaseWaitingForPlayers.
func (g *Game) Start() error {
	if g.Phase != PhaseWaitingForPlayers {
		return fmt.Errorf("%w: start called in phase %s", ErrInvalidGameState, g.Phase)
	}
	g.Phase = PhaseCollectingChoices
	g.CurrentRound = 1
	g.startedAt = time.Now()
	return nil
}

// SubmitMove records one player's move for the current round. Returns true
// once both players have submitted, at which point the game transitions to
// PhaseDrawingNumber and the round can be resolved.
func (g *Game) SubmitMove(playerID string, value int) (bothReceived bool, err error) {
	if g.Phase != PhaseCollectingChoices {
		return false, fmt.Errorf("%w: submit_move called in phase %s", ErrInvalidGameState, g.Phase)
	}
	if playerID != g.Player1ID && playerID != g.Player2ID {
		return false, fmt.Errorf("%w: %q is not a participant of game %s", ErrUnknownPlayer, playerID, g.ID)
	}
	if value < g.Rules.MinValue || value > g.Rules.MaxValue {
		return false, fmt.Errorf("%w: move %d outside range [%d,%d]", ErrInvalidMove, value, g.Rules.MinValue, g.Rules.MaxValue)
	}
	if _, dup := g.currentMoves[playerID]; dup {
		return false, fmt.Errorf("%w: player %q already submitted for round %d", ErrDuplicateMove, playerID, g.CurrentRound)
	}

	g.currentMoves[playerID] = Move{PlayerID: playerID, Value: value, At: time.Now()}
	if len(g.currentMoves) == 2 {
		g.Phase = PhaseDrawingNumber
		return true, nil
	}
	return false, nil
}

// ResolveRound applies the parity law to the two collected moves, credits the
// round winner, appends the round to history and either advances to the next
// round or finalizes the game. Only legal in PhaseDrawingNumber.
func (g *Game) ResolveRound() (RoundResult, error) {
	if g.Phase != PhaseDrawingNumber {
		return RoundResult{}, fmt.Errorf("%w: resolve_round called in phase %s", ErrInvalidGameState, g.Phase)
	}

	m1 := g.currentMoves[g.Player1ID]
	m2 := g.currentMoves[g.Player2ID]
	sum, isOdd, p1Wins := CalculateResult(m1.Value, m2.Value, g.Player1Role)

	winnerID := g.Player2ID
	if p1Wins {
		winnerID = g.Player1ID
		g.Player1Score++
	} else {
		g.Player2Score++
	}

	rr := RoundResult{
		Round:       g.CurrentRound,
		Player1Move: m1.Value,
		Player2Move: m2.Value,
		Sum:         sum,
		SumIsOdd:    isOdd,
		WinnerID:    winnerID,
		ResolvedAt:  time.Now(),
	}
	g.history = append(g.history, rr)
	g.currentMoves = make(map[string]Move, 2)

	if g.CurrentRound >= g.Rules.TotalRounds {
		g.finalize(DetermineGameWinner(g.Player1Score, g.Player2Score, g.Player1ID, g.Player2ID), ReasonCompleted)
	} else {
		g.CurrentRound++
		g.Phase = PhaseCollectingChoices
	}
	return rr, nil
}

// Forfeit force-finalizes the game with the other player declared winner.
// Usable from any non-terminal phase.
func (g *Game) Forfeit(playerID string) error {
	return g.abandon(playerID, ReasonForfeit)
}

// Timeout force-finalizes the game with the other player declared winner,
// marking the result as a timeout. Usable from any non-terminal phase.
// The engine has no internal timers; the orchestrator invokes this after an
// external deadline elapses.
func (g *Game) Timeout(playerID string) error {
	return g.abandon(playerID, ReasonTimeout)
}

func (g *Game) abandon(playerID string, reason FinishReason) error {
	if g.Phase == PhaseFinished {
		return fmt.Errorf("%w: %s called on finished game", ErrInvalidGameState, reason)
	}
	var winnerID string
	switch playerID {
	case g.Player1ID:
		winnerID = g.Player2ID
	case g.Player2ID:
		winnerID = g.Player1ID
	default:
		return fmt.Errorf("%w: %q is not a participant of game %s", ErrUnknownPlayer, playerID, g.ID)
	}
	g.finalize(winnerID, reason)
	return nil
}

// finalize freezes the game and builds its result exactly once.
func (g *Game) finalize(winnerID string, reason FinishReason) {
	g.Phase = PhaseFinished
	g.currentMoves = make(map[string]Move, 2)
	g.result = &GameResult{
		GameID:       g.ID,
		WinnerID:     winnerID,
		Player1Score: g.Player1Score,
		Player2Score: g.Player2Score,
		TotalRounds:  g.Rules.TotalRounds,
		Reason:       reason,
		Rounds:       g.History(),
		FinishedAt:   time.Now(),
	}
}

// Result returns the final game record. Only legal once PhaseFinished.
func (g *Game) Result() (GameResult, error) {
	if g.Phase != PhaseFinished || g.result == nil {
		return GameResult{}, fmt.Errorf("%w: result requested in phase %s", ErrInvalidGameState, g.Phase)
	}
	return *g.result, nil
}

// History returns a copy of the resolved rounds so far.
func (g *Game) History() []RoundResult {
	out := make([]RoundResult, len(g.history))
	copy(out, g.history)
	return out
}

// MovesSubmitted returns how many moves are held for the current round.
func (g *Game) MovesSubmitted() int { return len(g.currentMoves) }

// Snapshot returns a read-only view of the game for external reporting.
func (g *Game) Snapshot() map[string]any {
	snap := map[string]any{
		"game_id":         g.ID,
		"phase":           g.Phase.String(),
		"current_round":   g.CurrentRound,
		"total_rounds":    g.Rules.TotalRounds,
		"player1_id":      g.Player1ID,
		"player2_id":      g.Player2ID,
		"player1_role":    g.Player1Role.String(),
		"player1_score":   g.Player1Score,
		"player2_score":   g.Player2Score,
		"moves_submitted": len(g.currentMoves),
		"rounds_resolved": len(g.history),
	}
	if !g.startedAt.IsZero() {
		snap["started_at"] = g.startedAt.UTC().Format(time.RFC3339)
	}
	return snap
}
