package engine

import "testing"

// TestCalculateResultParityLaw verifies the parity law over the full move
// grid: the odd-role player wins iff (a+b) is odd.
func TestCalculateResultParityLaw(t *testing.T) {
	for a := 1; a <= 10; a++ {
		for b := 1; b <= 10; b++ {
			sum, isOdd, p1Wins := CalculateResult(a, b, ParityOdd)
			if sum != a+b {
				t.Fatalf("CalculateResult(%d,%d): sum = %d, want %d", a, b, sum, a+b)
			}
			if isOdd != ((a+b)%2 == 1) {
				t.Errorf("CalculateResult(%d,%d): isOdd = %v", a, b, isOdd)
			}
			if p1Wins != isOdd {
				t.Errorf("CalculateResult(%d,%d) odd role: p1Wins = %v with isOdd = %v", a, b, p1Wins, isOdd)
			}

			// Symmetric: even role wins exactly when the odd role loses.
			_, _, p1WinsEven := CalculateResult(a, b, ParityEven)
			if p1WinsEven == p1Wins {
				t.Errorf("CalculateResult(%d,%d): both roles claim p1Wins = %v", a, b, p1Wins)
			}
		}
	}
}

// TestCalculateResultScenarios covers the two canonical hand-checked rounds.
func TestCalculateResultScenarios(t *testing.T) {
	// P1=2, P2=3, P1 plays odd role → sum 5, odd, P1 wins.
	sum, isOdd, p1Wins := CalculateResult(2, 3, ParityOdd)
	if sum != 5 || !isOdd || !p1Wins {
		t.Errorf("(2,3,odd) = (%d,%v,%v), want (5,true,true)", sum, isOdd, p1Wins)
	}

	// P1=2, P2=4 → sum 6, even, P2 wins.
	sum, isOdd, p1Wins = CalculateResult(2, 4, ParityOdd)
	if sum != 6 || isOdd || p1Wins {
		t.Errorf("(2,4,odd) = (%d,%v,%v), want (6,false,false)", sum, isOdd, p1Wins)
	}
}

func TestDetermineGameWinner(t *testing.T) {
	cases := []struct {
		name           string
		score1, score2 int
		want           string
	}{
		{"player1 ahead", 3, 2, "p1"},
		{"player2 ahead", 1, 4, "p2"},
		{"exact tie", 2, 2, ""},
		{"zero-zero tie", 0, 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetermineGameWinner(tc.score1, tc.score2, "p1", "p2")
			if got != tc.want {
				t.Errorf("DetermineGameWinner(%d,%d) = %q, want %q", tc.score1, tc.score2, got, tc.want)
			}
		})
	}
}

func TestDefaultGameRules(t *testing.T) {
	r := DefaultGameRules()
	if r.MinValue != 1 || r.MaxValue != 10 {
		t.Errorf("default bounds = [%d,%d], want [1,10]", r.MinValue, r.MaxValue)
	}
	if r.TotalRounds <= 0 {
		t.Errorf("TotalRounds = %d, want positive", r.TotalRounds)
	}
}
