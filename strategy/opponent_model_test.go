package strategy

import (
	"testing"

	"github.com/oddlab/oddeven/engine"
)

func TestOpponentModelCounts(t *testing.T) {
	m := NewOpponentModel()
	moves := []int{1, 3, 4, 7, 2, 9}
	for _, v := range moves {
		m.Update(v, true)
	}

	if m.Observations() != len(moves) {
		t.Fatalf("Observations = %d, want %d", m.Observations(), len(moves))
	}
	if m.OddCount != 4 || m.EvenCount != 2 {
		t.Errorf("counts = %d odd / %d even, want 4/2", m.OddCount, m.EvenCount)
	}
	if m.OddCount+m.EvenCount != m.Observations() {
		t.Error("odd+even != observations")
	}

	wantProb := 4.0 / 6.0
	if m.ProbOdd() != wantProb {
		t.Errorf("ProbOdd = %f, want %f", m.ProbOdd(), wantProb)
	}
}

// TestOpponentModelConditionalTallies verifies conditioning keys off the
// observer's previous-round outcome and that the first observation is never
// conditioned.
func TestOpponentModelConditionalTallies(t *testing.T) {
	m := NewOpponentModel()

	m.Update(3, true)  // first observation: no prior outcome, not conditioned
	m.Update(5, false) // prior outcome was a win, move odd → AfterWinOdd
	m.Update(4, true)  // prior outcome was a loss, move even → AfterLossEven
	m.Update(7, true)  // prior outcome was a win, move odd → AfterWinOdd

	if m.AfterWinOdd != 2 || m.AfterLossEven != 1 {
		t.Errorf("AfterWinOdd=%d AfterLossEven=%d, want 2 and 1", m.AfterWinOdd, m.AfterLossEven)
	}
	if m.AfterWinEven != 0 || m.AfterLossOdd != 0 {
		t.Errorf("unexpected tallies: AfterWinEven=%d AfterLossOdd=%d", m.AfterWinEven, m.AfterLossOdd)
	}

	conditioned := m.AfterWinOdd + m.AfterWinEven + m.AfterLossOdd + m.AfterLossEven
	if conditioned > m.Observations()-1 {
		t.Errorf("conditioned tallies %d exceed observations-1 (%d)", conditioned, m.Observations()-1)
	}
}

func TestOpponentModelWindowBounded(t *testing.T) {
	m := NewOpponentModel()
	for i := 0; i < 50; i++ {
		m.Update(2, false) // even
	}
	for i := 0; i < 15; i++ {
		m.Update(3, false) // odd
	}

	if len(m.lastParities) != parityWindow {
		t.Fatalf("window length = %d, want %d", len(m.lastParities), parityWindow)
	}
	// Window holds the last 20 moves: 5 even followed by 15 odd.
	if got, want := m.RecentProbOdd(), 15.0/20.0; got != want {
		t.Errorf("RecentProbOdd = %f, want %f", got, want)
	}
	// Lifetime frequency still reflects everything.
	if got, want := m.ProbOdd(), 15.0/65.0; got != want {
		t.Errorf("ProbOdd = %f, want %f", got, want)
	}
}

func TestOpponentModelBiasStrength(t *testing.T) {
	m := NewOpponentModel()
	if m.BiasStrength() != 0 {
		t.Errorf("empty model bias = %f", m.BiasStrength())
	}
	for i := 0; i < 10; i++ {
		m.Update(1, false)
	}
	if m.BiasStrength() != 1 {
		t.Errorf("all-odd bias = %f, want 1", m.BiasStrength())
	}
}

// TestModelSetIngestsHistoryOnce verifies repeated observe calls with the
// same history never double-count, and that games stay isolated.
func TestModelSetIngestsHistoryOnce(t *testing.T) {
	s := newModelSet()
	req := Request{
		GameID:   "g1",
		PlayerID: "me",
		Role:     engine.ParityOdd,
		History: []RoundView{
			{Round: 1, MyMove: 2, OpponentMove: 3, Sum: 5, WinnerID: "me"},
			{Round: 2, MyMove: 4, OpponentMove: 5, Sum: 9, WinnerID: "me"},
		},
	}

	m := s.observe(req)
	if m.Observations() != 2 {
		t.Fatalf("Observations = %d, want 2", m.Observations())
	}
	// Same history again: nothing new to ingest.
	m = s.observe(req)
	if m.Observations() != 2 {
		t.Fatalf("Observations after re-observe = %d, want 2", m.Observations())
	}
	// One appended round: exactly one more observation.
	req.History = append(req.History, RoundView{Round: 3, MyMove: 1, OpponentMove: 2, Sum: 3, WinnerID: "opp"})
	m = s.observe(req)
	if m.Observations() != 3 {
		t.Fatalf("Observations after append = %d, want 3", m.Observations())
	}

	// A different game gets its own model.
	other := s.observe(Request{GameID: "g2", PlayerID: "me"})
	if other.Observations() != 0 {
		t.Errorf("fresh game model has %d observations", other.Observations())
	}
	if other == m {
		t.Error("games share a model")
	}
}
