package strategy

import (
	"context"
	"math"
	"math/rand"

	"github.com/oddlab/oddeven/engine"
)

// ucbArm holds one bandit arm's pull count and cumulative reward.
type ucbArm struct {
	pulls  int
	reward float64
}

// ucbState is the per-game two-armed bandit, indexed by engine.Parity.
type ucbState struct {
	arms  [2]ucbArm
	total int
}

// UCB treats the two parities as bandit arms. Each arm scores its empirical
// mean reward plus the UCB1 exploration bonus c·sqrt(ln t / n); untried arms
// score infinite and are therefore always pulled before any arm repeats.
// Reward is 1 for a won round, 0 for a lost one.
type UCB struct {
	cfg Config
	rng *rand.Rand

	states map[string]*ucbState
	seen   map[string]int
}

// NewUCB creates the UCB1 bandit strategy.
func NewUCB(cfg Config, rng *rand.Rand) *UCB {
	return &UCB{
		cfg:    cfg,
		rng:    newRNG(rng),
		states: make(map[string]*ucbState),
		seen:   make(map[string]int),
	}
}

func (s *UCB) Name() string { return "ucb" }

// state returns the per-game bandit after ingesting unseen history.
func (s *UCB) state(req Request) *ucbState {
	st, ok := s.states[req.GameID]
	if !ok {
		st = &ucbState{}
		s.states[req.GameID] = st
	}
	for _, rv := range req.History[s.seen[req.GameID]:] {
		arm := engine.ParityOf(rv.MyMove)
		st.arms[arm].pulls++
		st.total++
		if wonRound(req, rv) {
			st.arms[arm].reward++
		}
	}
	s.seen[req.GameID] = len(req.History)
	return st
}

func (s *UCB) DecideMove(_ context.Context, req Request) (int, error) {
	st := s.state(req)

	// Untried arms first, in fixed order for reproducibility.
	for _, p := range []engine.Parity{engine.ParityOdd, engine.ParityEven} {
		if st.arms[p].pulls == 0 {
			return moveOfParity(s.rng, p, s.cfg), nil
		}
	}

	best := engine.ParityOdd
	bestScore := math.Inf(-1)
	for _, p := range []engine.Parity{engine.ParityOdd, engine.ParityEven} {
		arm := st.arms[p]
		mean := arm.reward / float64(arm.pulls)
		bonus := s.cfg.UCBExplorationConstant * math.Sqrt(math.Log(float64(st.total))/float64(arm.pulls))
		if score := mean + bonus; score > bestScore {
			best = p
			bestScore = score
		}
	}
	return moveOfParity(s.rng, best, s.cfg), nil
}

func (s *UCB) Reset() {
	s.states = make(map[string]*ucbState)
	s.seen = make(map[string]int)
}

func (s *UCB) Stats() map[string]any {
	games := make(map[string]any, len(s.states))
	for id, st := range s.states {
		games[id] = map[string]any{
			"odd_pulls":   st.arms[engine.ParityOdd].pulls,
			"odd_reward":  st.arms[engine.ParityOdd].reward,
			"even_pulls":  st.arms[engine.ParityEven].pulls,
			"even_reward": st.arms[engine.ParityEven].reward,
			"total":       st.total,
		}
	}
	return map[string]any{"strategy": s.Name(), "games": games}
}
