package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Parity is the odd/even classification of an integer move. It is the only
// semantically meaningful property of a move in this game, and it doubles as
// a player role: the player assigned ParityOdd wins rounds whose move sum is
// odd, the ParityEven player wins the rest.
type Parity uint8

const (
	ParityOdd  Parity = 0
	ParityEven Parity = 1
)

// ParityOf returns the parity of an integer value.
// Negative values classify the same way as their absolute value.
func ParityOf(v int) Parity {
	if v%2 != 0 {
		return ParityOdd
	}
	return ParityEven
}

// Opposite returns the other parity.
func (p Parity) Opposite() Parity {
	if p == ParityOdd {
		return ParityEven
	}
	return ParityOdd
}

func (p Parity) String() string {
	if p == ParityOdd {
		return "odd"
	}
	return "even"
}

// ToNumber draws a uniformly random integer of parity p within [min, max].
// The second return is false when the range contains no value of that parity
// (e.g. [4,4] for odd), in which case the caller must fall back to some other
// legal value.
func (p Parity) ToNumber(rng *rand.Rand, min, max int) (int, bool) {
	first := min
	if ParityOf(first) != p {
		first++
	}
	if first > max {
		return 0, false
	}
	n := (max-first)/2 + 1
	return first + 2*rng.Intn(n), true
}

// Move is a single player's submitted value for one round.
type Move struct {
	PlayerID string
	Value    int
	At       time.Time
}

// Phase is the game-lifecycle state machine. Transitions:
//
//	WaitingForPlayers → CollectingChoices → DrawingNumber → CollectingChoices (next round)
//	                                                      → Finished (last round)
//
// Forfeit and Timeout jump to Finished from any non-terminal phase.
type Phase uint8

const (
	PhaseWaitingForPlayers Phase = iota
	PhaseCollectingChoices
	PhaseDrawingNumber
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "waiting_for_players"
	case PhaseCollectingChoices:
		return "collecting_choices"
	case PhaseDrawingNumber:
		return "drawing_number"
	case PhaseFinished:
		return "finished"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// FinishReason records how a game reached PhaseFinished.
type FinishReason string

const (
	ReasonCompleted FinishReason = "completed"
	ReasonForfeit   FinishReason = "forfeit"
	ReasonTimeout   FinishReason = "timeout"
)

// RoundResult is the immutable record of one resolved round.
// WinnerID is always set: sum parity produces a definite winner.
type RoundResult struct {
	Round       int
	Player1Move int
	Player2Move int
	Sum         int
	SumIsOdd    bool
	WinnerID    string
	ResolvedAt  time.Time
}

// ToMap renders the round as plain nested primitives for serialization.
func (r RoundResult) ToMap() map[string]any {
	return map[string]any{
		"round":        r.Round,
		"player1_move": r.Player1Move,
		"player2_move": r.Player2Move,
		"sum":          r.Sum,
		"sum_is_odd":   r.SumIsOdd,
		"winner_id":    r.WinnerID,
		"resolved_at":  r.ResolvedAt.UTC().Format(time.RFC3339),
	}
}

// GameResult is the immutable final record of a finished game.
// WinnerID is empty on an aggregate-score tie (legal when the round count is
// even), never empty for forfeit or timeout finishes.
type GameResult struct {
	GameID       string
	WinnerID     string
	Player1Score int
	Player2Score int
	TotalRounds  int
	Reason       FinishReason
	Rounds       []RoundResult
	FinishedAt   time.Time
}

// ToMap renders the result as plain nested primitives for serialization.
func (r GameResult) ToMap() map[string]any {
	rounds := make([]map[string]any, len(r.Rounds))
	for i, rr := range r.Rounds {
		rounds[i] = rr.ToMap()
	}
	return map[string]any{
		"game_id":       r.GameID,
		"winner_id":     r.WinnerID,
		"player1_score": r.Player1Score,
		"player2_score": r.Player2Score,
		"total_rounds":  r.TotalRounds,
		"reason":        string(r.Reason),
		"rounds":        rounds,
		"finished_at":   r.FinishedAt.UTC().Format(time.RFC3339),
	}
}
