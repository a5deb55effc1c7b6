package strategy

import (
	"context"
	"math/rand"

	"github.com/oddlab/oddeven/engine"
)

// regretState accumulates per-game counterfactual regret for the two parity
// actions, indexed by engine.Parity.
type regretState struct {
	regret      [2]float64
	strategySum [2]float64
	rounds      int
}

// RegretMatching is CFR-style regret matching over the two parity actions.
// After every round it accumulates the regret of the unchosen parity. In
// this game flipping one player's parity flips the outcome, so the
// counterfactual payoff is always the negation of the realized one. It then
// samples the next parity proportional to positive regret, falling back to
// uniform when no regret is positive.
type RegretMatching struct {
	cfg Config
	rng *rand.Rand

	states map[string]*regretState
	seen   map[string]int
}

// NewRegretMatching creates the regret-matching strategy.
func NewRegretMatching(cfg Config, rng *rand.Rand) *RegretMatching {
	return &RegretMatching{
		cfg:    cfg,
		rng:    newRNG(rng),
		states: make(map[string]*regretState),
		seen:   make(map[string]int),
	}
}

func (s *RegretMatching) Name() string { return "regret_matching" }

// state returns the per-game regret table after ingesting unseen history.
func (s *RegretMatching) state(req Request) *regretState {
	st, ok := s.states[req.GameID]
	if !ok {
		st = &regretState{}
		s.states[req.GameID] = st
	}
	for _, rv := range req.History[s.seen[req.GameID]:] {
		chosen := engine.ParityOf(rv.MyMove)
		payoff := -1.0
		if wonRound(req, rv) {
			payoff = 1.0
		}
		// Counterfactual: the other parity would have flipped the sum parity
		// and with it the outcome.
		counterfactual := -payoff

		if s.cfg.DecayRate > 0 && s.cfg.DecayRate < 1 {
			st.regret[0] *= s.cfg.DecayRate
			st.regret[1] *= s.cfg.DecayRate
		}
		st.regret[chosen.Opposite()] += s.cfg.LearningRate * (counterfactual - payoff)
		st.rounds++
	}
	s.seen[req.GameID] = len(req.History)
	return st
}

// mixedStrategy normalizes positive regrets into action probabilities,
// uniform when no regret is positive.
func (st *regretState) mixedStrategy() [2]float64 {
	var probs [2]float64
	norm := 0.0
	for a := 0; a < 2; a++ {
		if st.regret[a] > 0 {
			probs[a] = st.regret[a]
		}
		norm += probs[a]
	}
	for a := 0; a < 2; a++ {
		if norm > 0 {
			probs[a] /= norm
		} else {
			probs[a] = 0.5
		}
		st.strategySum[a] += probs[a]
	}
	return probs
}

func (s *RegretMatching) DecideMove(_ context.Context, req Request) (int, error) {
	st := s.state(req)
	probs := st.mixedStrategy()

	p := engine.ParityEven
	if s.rng.Float64() < probs[engine.ParityOdd] {
		p = engine.ParityOdd
	}
	return moveOfParity(s.rng, p, s.cfg), nil
}

func (s *RegretMatching) Reset() {
	s.states = make(map[string]*regretState)
	s.seen = make(map[string]int)
}

// AverageStrategy returns the time-averaged mixed strategy for one game,
// which is what converges in regret matching (the per-round strategy
// oscillates). Uniform if the game is unknown or has no decisions yet.
func (s *RegretMatching) AverageStrategy(gameID string) [2]float64 {
	st, ok := s.states[gameID]
	if !ok {
		return [2]float64{0.5, 0.5}
	}
	norm := st.strategySum[0] + st.strategySum[1]
	if norm == 0 {
		return [2]float64{0.5, 0.5}
	}
	return [2]float64{st.strategySum[0] / norm, st.strategySum[1] / norm}
}

func (s *RegretMatching) Stats() map[string]any {
	games := make(map[string]any, len(s.states))
	for id, st := range s.states {
		avg := s.AverageStrategy(id)
		games[id] = map[string]any{
			"regret_odd":  st.regret[engine.ParityOdd],
			"regret_even": st.regret[engine.ParityEven],
			"avg_odd":     avg[engine.ParityOdd],
			"avg_even":    avg[engine.ParityEven],
			"rounds":      st.rounds,
		}
	}
	return map[string]any{"strategy": s.Name(), "games": games}
}
