package strategy

import (
	"context"
	"math"
	"math/rand"

	"github.com/oddlab/oddeven/engine"
)

// thompsonArm holds one arm's win/loss tallies on top of the Beta prior.
type thompsonArm struct {
	wins   float64
	losses float64
}

// ThompsonSampling maintains a Beta(prior_alpha+wins, prior_beta+losses)
// posterior per parity arm, samples one value from each posterior and plays
// the arm with the higher draw. Exploration falls out of posterior variance,
// so no tuning constant is needed.
type ThompsonSampling struct {
	cfg Config
	rng *rand.Rand

	states map[string]*[2]thompsonArm
	seen   map[string]int
}

// NewThompsonSampling creates the Thompson-sampling bandit strategy.
func NewThompsonSampling(cfg Config, rng *rand.Rand) *ThompsonSampling {
	return &ThompsonSampling{
		cfg:    cfg,
		rng:    newRNG(rng),
		states: make(map[string]*[2]thompsonArm),
		seen:   make(map[string]int),
	}
}

func (s *ThompsonSampling) Name() string { return "thompson_sampling" }

// arms returns the per-game arm tallies after ingesting unseen history.
func (s *ThompsonSampling) arms(req Request) *[2]thompsonArm {
	st, ok := s.states[req.GameID]
	if !ok {
		st = &[2]thompsonArm{}
		s.states[req.GameID] = st
	}
	for _, rv := range req.History[s.seen[req.GameID]:] {
		arm := engine.ParityOf(rv.MyMove)
		if wonRound(req, rv) {
			st[arm].wins++
		} else {
			st[arm].losses++
		}
	}
	s.seen[req.GameID] = len(req.History)
	return st
}

func (s *ThompsonSampling) DecideMove(_ context.Context, req Request) (int, error) {
	st := s.arms(req)

	best := engine.ParityOdd
	bestSample := math.Inf(-1)
	for _, p := range []engine.Parity{engine.ParityOdd, engine.ParityEven} {
		draw := sampleBeta(s.rng, s.cfg.PriorAlpha+st[p].wins, s.cfg.PriorBeta+st[p].losses)
		if draw > bestSample {
			best = p
			bestSample = draw
		}
	}
	return moveOfParity(s.rng, best, s.cfg), nil
}

func (s *ThompsonSampling) Reset() {
	s.states = make(map[string]*[2]thompsonArm)
	s.seen = make(map[string]int)
}

func (s *ThompsonSampling) Stats() map[string]any {
	games := make(map[string]any, len(s.states))
	for id, st := range s.states {
		games[id] = map[string]any{
			"odd_wins":    st[engine.ParityOdd].wins,
			"odd_losses":  st[engine.ParityOdd].losses,
			"even_wins":   st[engine.ParityEven].wins,
			"even_losses": st[engine.ParityEven].losses,
		}
	}
	return map[string]any{"strategy": s.Name(), "games": games}
}
