package strategy

import (
	"context"
	"math/rand"

	"github.com/oddlab/oddeven/engine"
)

// FictitiousPlay is the classic empirical best response: it treats the
// opponent's lifetime parity frequency as their mixed strategy and plays the
// pure best response to it. Smoothing blends the empirical estimate toward
// uniform, softening early over-reactions to short samples.
type FictitiousPlay struct {
	cfg Config
	rng *rand.Rand

	// Smoothing in [0,1]: 0 = raw empirical frequency, 1 = always uniform.
	Smoothing float64

	models modelSet
}

// NewFictitiousPlay creates the empirical best-response strategy with no
// smoothing.
func NewFictitiousPlay(cfg Config, rng *rand.Rand) *FictitiousPlay {
	return &FictitiousPlay{cfg: cfg, rng: newRNG(rng), models: newModelSet()}
}

func (s *FictitiousPlay) Name() string { return "fictitious_play" }

func (s *FictitiousPlay) DecideMove(_ context.Context, req Request) (int, error) {
	m := s.models.observe(req)
	if m.Observations() == 0 {
		return moveOfParity(s.rng, randomParity(s.rng), s.cfg), nil
	}

	pOdd := (1-s.Smoothing)*m.ProbOdd() + s.Smoothing*0.5

	var predicted engine.Parity
	switch {
	case pOdd > 0.5:
		predicted = engine.ParityOdd
	case pOdd < 0.5:
		predicted = engine.ParityEven
	default:
		predicted = randomParity(s.rng)
	}
	return moveOfParity(s.rng, bestResponseParity(req.Role, predicted), s.cfg), nil
}

func (s *FictitiousPlay) Reset() { s.models.reset() }

func (s *FictitiousPlay) Stats() map[string]any {
	games := make(map[string]any, len(s.models.models))
	for id, m := range s.models.models {
		games[id] = m.Stats()
	}
	return map[string]any{
		"strategy":  s.Name(),
		"smoothing": s.Smoothing,
		"games":     games,
	}
}
