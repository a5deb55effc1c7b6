package strategy

import (
	"context"
	"math"
	"math/rand"

	"github.com/oddlab/oddeven/engine"
)

// BetaBelief is a Beta-Bernoulli posterior over "opponent plays odd".
// Alpha counts odd observations, Beta counts even, both seeded from the
// configured prior.
type BetaBelief struct {
	Alpha      float64
	Beta       float64
	priorAlpha float64
	priorBeta  float64
}

// NewBetaBelief seeds a belief from the prior.
func NewBetaBelief(priorAlpha, priorBeta float64) *BetaBelief {
	return &BetaBelief{
		Alpha:      priorAlpha,
		Beta:       priorBeta,
		priorAlpha: priorAlpha,
		priorBeta:  priorBeta,
	}
}

// ObserveParity folds one opponent parity into the posterior.
func (b *BetaBelief) ObserveParity(p engine.Parity) {
	if p == engine.ParityOdd {
		b.Alpha++
	} else {
		b.Beta++
	}
}

// Mean returns the posterior mean P(opponent plays odd).
func (b *BetaBelief) Mean() float64 {
	return b.Alpha / (b.Alpha + b.Beta)
}

// Observations returns the evidence count, excluding the prior pseudo-counts.
func (b *BetaBelief) Observations() int {
	return int(b.Alpha + b.Beta - b.priorAlpha - b.priorBeta)
}

// Confidence measures how certain the posterior is that a real bias exists:
// the distance of the mean from uniform (scaled to [0,1]) damped by the
// evidence weight n/(n+priorWeight), so small samples cannot look confident.
func (b *BetaBelief) Confidence() float64 {
	n := float64(b.Observations())
	if n == 0 {
		return 0
	}
	strength := 2 * math.Abs(b.Mean()-0.5)
	weight := n / (n + b.priorAlpha + b.priorBeta)
	return strength * weight
}

// Reset restores the belief to its prior.
func (b *BetaBelief) Reset() {
	b.Alpha = b.priorAlpha
	b.Beta = b.priorBeta
}

// AdaptiveBayesian keeps a per-game Beta-Bernoulli belief over the opponent's
// parity and gates exploitation behind both a confidence threshold and a
// minimum observation count. Until the gate opens it plays Nash; afterwards
// it best-responds to the posterior's modal parity, still exploring at
// ExplorationRate to stay unpredictable.
type AdaptiveBayesian struct {
	cfg Config
	rng *rand.Rand

	beliefs map[string]*BetaBelief
	seen    map[string]int
}

// NewAdaptiveBayesian creates the explore/exploit-gated Bayesian strategy.
func NewAdaptiveBayesian(cfg Config, rng *rand.Rand) *AdaptiveBayesian {
	return &AdaptiveBayesian{
		cfg:     cfg,
		rng:     newRNG(rng),
		beliefs: make(map[string]*BetaBelief),
		seen:    make(map[string]int),
	}
}

func (s *AdaptiveBayesian) Name() string { return "adaptive_bayesian" }

// belief returns the per-game posterior after ingesting unseen history.
func (s *AdaptiveBayesian) belief(req Request) *BetaBelief {
	b, ok := s.beliefs[req.GameID]
	if !ok {
		b = NewBetaBelief(s.cfg.PriorAlpha, s.cfg.PriorBeta)
		s.beliefs[req.GameID] = b
	}
	for _, rv := range req.History[s.seen[req.GameID]:] {
		b.ObserveParity(engine.ParityOf(rv.OpponentMove))
	}
	s.seen[req.GameID] = len(req.History)
	return b
}

func (s *AdaptiveBayesian) DecideMove(_ context.Context, req Request) (int, error) {
	b := s.belief(req)

	exploit := b.Confidence() >= s.cfg.ConfidenceThreshold &&
		b.Observations() >= s.cfg.MinObservations
	if !exploit || s.rng.Float64() < s.cfg.ExplorationRate {
		return moveOfParity(s.rng, randomParity(s.rng), s.cfg), nil
	}

	predicted := engine.ParityEven
	if b.Mean() > 0.5 {
		predicted = engine.ParityOdd
	}
	return moveOfParity(s.rng, bestResponseParity(req.Role, predicted), s.cfg), nil
}

func (s *AdaptiveBayesian) Reset() {
	s.beliefs = make(map[string]*BetaBelief)
	s.seen = make(map[string]int)
}

func (s *AdaptiveBayesian) Stats() map[string]any {
	games := make(map[string]any, len(s.beliefs))
	for id, b := range s.beliefs {
		games[id] = map[string]any{
			"alpha":        b.Alpha,
			"beta":         b.Beta,
			"mean":         b.Mean(),
			"confidence":   b.Confidence(),
			"observations": b.Observations(),
		}
	}
	return map[string]any{"strategy": s.Name(), "games": games}
}
