package strategy

import (
	"context"
	"math/rand"

	"github.com/oddlab/oddeven/engine"
)

// BestResponse exploits an observed parity bias. It tracks one OpponentModel
// per game, plays Nash until MinObservations samples exist, then best-responds
// to the opponent's predicted parity: the odd role plays the opposite parity
// of the prediction, the even role matches it.
type BestResponse struct {
	cfg Config
	rng *rand.Rand

	// Deterministic picks the modal predicted parity; otherwise the
	// prediction is sampled proportional to the observed frequency.
	Deterministic bool

	models modelSet
}

// NewBestResponse creates a probabilistic best-response strategy.
func NewBestResponse(cfg Config, rng *rand.Rand) *BestResponse {
	return &BestResponse{cfg: cfg, rng: newRNG(rng), models: newModelSet()}
}

func (s *BestResponse) Name() string { return "best_response" }

func (s *BestResponse) DecideMove(_ context.Context, req Request) (int, error) {
	m := s.models.observe(req)

	if m.Observations() < s.cfg.MinObservations {
		return moveOfParity(s.rng, randomParity(s.rng), s.cfg), nil
	}

	pOdd := m.ProbOdd()
	var predicted engine.Parity
	if s.Deterministic {
		switch {
		case pOdd > 0.5:
			predicted = engine.ParityOdd
		case pOdd < 0.5:
			predicted = engine.ParityEven
		default:
			predicted = randomParity(s.rng)
		}
	} else {
		if s.rng.Float64() < pOdd {
			predicted = engine.ParityOdd
		} else {
			predicted = engine.ParityEven
		}
	}

	return moveOfParity(s.rng, bestResponseParity(req.Role, predicted), s.cfg), nil
}

func (s *BestResponse) Reset() { s.models.reset() }

func (s *BestResponse) Stats() map[string]any {
	games := make(map[string]any, len(s.models.models))
	for id, m := range s.models.models {
		games[id] = m.Stats()
	}
	return map[string]any{
		"strategy":      s.Name(),
		"deterministic": s.Deterministic,
		"games":         games,
	}
}
