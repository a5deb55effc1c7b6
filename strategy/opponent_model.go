package strategy

import "github.com/oddlab/oddeven/engine"

// parityWindow bounds the rolling recent-parity buffer.
const parityWindow = 20

// OpponentModel tracks one opponent's move-parity behavior within a single
// game. It is owned exclusively by the strategy instance that created it and
// is updated exactly once per observed opponent move.
type OpponentModel struct {
	OddCount  int
	EvenCount int

	// lastParities is a bounded window of the most recent observed parities,
	// oldest first.
	lastParities []engine.Parity

	// Conditional tallies keyed by the observer's previous-round outcome.
	// They sum to at most Observations()-1: the first observation has no
	// prior outcome to condition on.
	AfterWinOdd   int
	AfterWinEven  int
	AfterLossOdd  int
	AfterLossEven int

	lastWon    bool
	hasOutcome bool
}

// NewOpponentModel returns an empty model.
func NewOpponentModel() *OpponentModel {
	return &OpponentModel{}
}

// Update ingests one observed opponent move. iWon is whether the observer won
// the round containing that move; it becomes the conditioning outcome for the
// next observation.
func (m *OpponentModel) Update(opponentMove int, iWon bool) {
	p := engine.ParityOf(opponentMove)
	if p == engine.ParityOdd {
		m.OddCount++
	} else {
		m.EvenCount++
	}

	m.lastParities = append(m.lastParities, p)
	if len(m.lastParities) > parityWindow {
		m.lastParities = m.lastParities[1:]
	}

	if m.hasOutcome {
		switch {
		case m.lastWon && p == engine.ParityOdd:
			m.AfterWinOdd++
		case m.lastWon:
			m.AfterWinEven++
		case p == engine.ParityOdd:
			m.AfterLossOdd++
		default:
			m.AfterLossEven++
		}
	}
	m.lastWon = iWon
	m.hasOutcome = true
}

// Observations returns the number of opponent moves seen.
func (m *OpponentModel) Observations() int {
	return m.OddCount + m.EvenCount
}

// ProbOdd returns the lifetime frequency of odd opponent moves, 0.5 when
// nothing has been observed.
func (m *OpponentModel) ProbOdd() float64 {
	n := m.Observations()
	if n == 0 {
		return 0.5
	}
	return float64(m.OddCount) / float64(n)
}

// RecentProbOdd returns the odd frequency within the bounded recent window.
func (m *OpponentModel) RecentProbOdd() float64 {
	if len(m.lastParities) == 0 {
		return 0.5
	}
	odd := 0
	for _, p := range m.lastParities {
		if p == engine.ParityOdd {
			odd++
		}
	}
	return float64(odd) / float64(len(m.lastParities))
}

// BiasStrength returns how far the opponent leans from uniform, in [0,1].
func (m *OpponentModel) BiasStrength() float64 {
	d := m.ProbOdd() - 0.5
	if d < 0 {
		d = -d
	}
	return 2 * d
}

// Stats returns a diagnostic view of the model.
func (m *OpponentModel) Stats() map[string]any {
	return map[string]any{
		"observations":    m.Observations(),
		"odd_count":       m.OddCount,
		"even_count":      m.EvenCount,
		"prob_odd":        m.ProbOdd(),
		"recent_prob_odd": m.RecentProbOdd(),
		"bias_strength":   m.BiasStrength(),
		"after_win_odd":   m.AfterWinOdd,
		"after_win_even":  m.AfterWinEven,
		"after_loss_odd":  m.AfterLossOdd,
		"after_loss_even": m.AfterLossEven,
	}
}

// modelSet lazily tracks one OpponentModel per game ID, ingesting only the
// history suffix not yet observed so each round updates the model exactly
// once regardless of how often DecideMove is called.
type modelSet struct {
	models map[string]*OpponentModel
	seen   map[string]int
}

func newModelSet() modelSet {
	return modelSet{
		models: make(map[string]*OpponentModel),
		seen:   make(map[string]int),
	}
}

// observe returns the model for req.GameID after feeding it any rounds it has
// not yet seen.
func (s *modelSet) observe(req Request) *OpponentModel {
	m, ok := s.models[req.GameID]
	if !ok {
		m = NewOpponentModel()
		s.models[req.GameID] = m
	}
	for _, rv := range req.History[s.seen[req.GameID]:] {
		m.Update(rv.OpponentMove, wonRound(req, rv))
	}
	s.seen[req.GameID] = len(req.History)
	return m
}

func (s *modelSet) reset() {
	s.models = make(map[string]*OpponentModel)
	s.seen = make(map[string]int)
}
