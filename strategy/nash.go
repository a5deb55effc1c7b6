package strategy

import (
	"context"
	"math/rand"
)

// Nash plays the mixed-strategy equilibrium of matching pennies: a fair coin
// over parity every round, ignoring history entirely. It cannot be exploited
// and cannot exploit; it serves as the unbiased baseline and as the fallback
// arm inside the adaptive strategies.
type Nash struct {
	cfg       Config
	rng       *rand.Rand
	decisions int
}

// NewNash creates the equilibrium strategy. rng may be nil for a time-seeded
// source; pass a seeded source for reproducible play.
func NewNash(cfg Config, rng *rand.Rand) *Nash {
	return &Nash{cfg: cfg, rng: newRNG(rng)}
}

func (s *Nash) Name() string { return "nash" }

func (s *Nash) DecideMove(_ context.Context, _ Request) (int, error) {
	s.decisions++
	return moveOfParity(s.rng, randomParity(s.rng), s.cfg), nil
}

func (s *Nash) Reset() { s.decisions = 0 }

func (s *Nash) Stats() map[string]any {
	return map[string]any{"strategy": s.Name(), "decisions": s.decisions}
}
