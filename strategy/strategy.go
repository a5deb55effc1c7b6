// Package strategy implements decision policies for the repeated Odd/Even
// game: a fixed Nash mixture, opponent-model exploiters (best response,
// adaptive Bayesian, fictitious play), regret matching, and the bandit pair
// UCB1 / Thompson sampling.
//
// Every policy keeps its learned state keyed by game ID so that concurrent
// games never cross-contaminate statistics, and every policy is exactly
// reproducible given a seeded *rand.Rand and a fixed history.
package strategy

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/oddlab/oddeven/engine"
)

// Config is the shared, read-mostly strategy configuration. It is not mutated
// after construction and may be shared by reference across strategies.
type Config struct {
	MinValue int // lowest legal move value
	MaxValue int // highest legal move value

	ExplorationRate     float64 // chance to play uniformly even when exploiting
	ConfidenceThreshold float64 // posterior confidence required to exploit
	MinObservations     int     // samples required before deviating from Nash
	LearningRate        float64 // regret accumulation scale
	DecayRate           float64 // per-update regret discount; 1 = no decay

	UCBExplorationConstant float64 // UCB1 bonus multiplier
	PriorAlpha             float64 // Beta prior (odd / win pseudo-counts)
	PriorBeta              float64 // Beta prior (even / loss pseudo-counts)
}

// DefaultConfig returns the standard tuning for moves in [1,10].
func DefaultConfig() Config {
	return Config{
		MinValue:               1,
		MaxValue:               10,
		ExplorationRate:        0.1,
		ConfidenceThreshold:    0.65,
		MinObservations:        5,
		LearningRate:           1.0,
		DecayRate:              1.0,
		UCBExplorationConstant: math.Sqrt2,
		PriorAlpha:             1.0,
		PriorBeta:              1.0,
	}
}

// RoundView is one prior round seen from the deciding player's perspective.
type RoundView struct {
	Round        int
	MyMove       int
	OpponentMove int
	Sum          int
	WinnerID     string
}

// Request carries everything a strategy may consult for one decision. History
// is the ordered sequence of prior resolved rounds for this game only.
type Request struct {
	GameID        string
	PlayerID      string
	Round         int
	Role          engine.Parity
	MyScore       int
	OpponentScore int
	History       []RoundView
}

// Strategy is the contract between the referee and a decision policy.
// DecideMove must return a value within the configured bounds; Reset clears
// all learned state across every game.
type Strategy interface {
	Name() string
	DecideMove(ctx context.Context, req Request) (int, error)
	Reset()
	Stats() map[string]any
}

// newRNG returns rng unchanged, or a time-seeded fallback when nil.
func newRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// bestResponseParity returns the parity that beats a predicted opponent
// parity for the given role. The odd-role player wants an odd sum, so plays
// the opposite of the prediction; the even-role player matches it.
func bestResponseParity(role, predicted engine.Parity) engine.Parity {
	if role == engine.ParityOdd {
		return predicted.Opposite()
	}
	return predicted
}

// randomParity flips a fair coin.
func randomParity(rng *rand.Rand) engine.Parity {
	if rng.Intn(2) == 0 {
		return engine.ParityOdd
	}
	return engine.ParityEven
}

// moveOfParity converts a decided parity into a concrete legal move,
// uniformly among values of that parity. If the range holds no such value it
// falls back to a uniform legal move so the bounds contract is never broken.
func moveOfParity(rng *rand.Rand, p engine.Parity, cfg Config) int {
	if v, ok := p.ToNumber(rng, cfg.MinValue, cfg.MaxValue); ok {
		return v
	}
	return cfg.MinValue + rng.Intn(cfg.MaxValue-cfg.MinValue+1)
}

// randomMove returns a uniform legal move, ignoring parity.
func randomMove(rng *rand.Rand, cfg Config) int {
	return cfg.MinValue + rng.Intn(cfg.MaxValue-cfg.MinValue+1)
}

// wonRound reports whether the deciding player won the given round.
func wonRound(req Request, rv RoundView) bool {
	return rv.WinnerID == req.PlayerID
}
