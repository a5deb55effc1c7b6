package strategy

import (
	"context"
	"math/rand"
)

// DecideFunc is an externally supplied decision function, typically backed by
// a remote model service.
type DecideFunc func(ctx context.Context, req Request) (int, error)

// External wraps an out-of-process decision source. An unavailable external
// dependency must never abort an in-progress game, so every failure mode
// (returned error, context cancellation, out-of-bounds answer) is absorbed
// and replaced with a uniform random legal move.
type External struct {
	cfg    Config
	rng    *rand.Rand
	decide DecideFunc

	calls     int
	fallbacks int
}

// NewExternal wraps decide. A nil decide always falls back.
func NewExternal(cfg Config, rng *rand.Rand, decide DecideFunc) *External {
	return &External{cfg: cfg, rng: newRNG(rng), decide: decide}
}

func (s *External) Name() string { return "external" }

func (s *External) DecideMove(ctx context.Context, req Request) (int, error) {
	s.calls++
	if s.decide == nil {
		s.fallbacks++
		return randomMove(s.rng, s.cfg), nil
	}
	v, err := s.decide(ctx, req)
	if err != nil || ctx.Err() != nil || v < s.cfg.MinValue || v > s.cfg.MaxValue {
		s.fallbacks++
		return randomMove(s.rng, s.cfg), nil
	}
	return v, nil
}

func (s *External) Reset() {
	s.calls = 0
	s.fallbacks = 0
}

func (s *External) Stats() map[string]any {
	return map[string]any{
		"strategy":  s.Name(),
		"calls":     s.calls,
		"fallbacks": s.fallbacks,
	}
}
