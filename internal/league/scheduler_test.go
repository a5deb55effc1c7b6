package league

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func TestRoundRobinFourPlayers(t *testing.T) {
	players := []string{"A", "B", "C", "D"}
	schedule := CreateRoundRobinSchedule(players)

	require.Len(t, schedule, 3, "4 players should produce 3 rounds")
	for r, pairings := range schedule {
		assert.Len(t, pairings, 2, "round %d should have 2 pairings", r+1)
	}
}

func TestRoundRobinEveryPairMeetsOnce(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6, 7, 8, 11} {
		t.Run(fmt.Sprintf("%d_players", n), func(t *testing.T) {
			players := make([]string, n)
			for i := range players {
				players[i] = fmt.Sprintf("p%d", i)
			}

			schedule := CreateRoundRobinSchedule(players)
			seen := make(map[string]int)
			for r, pairings := range schedule {
				inRound := make(map[string]bool)
				for _, p := range pairings {
					assert.NotEqual(t, p.Player1, p.Player2, "player paired with itself")
					seen[pairKey(p.Player1, p.Player2)]++
					assert.False(t, inRound[p.Player1], "%s appears twice in round %d", p.Player1, r+1)
					assert.False(t, inRound[p.Player2], "%s appears twice in round %d", p.Player2, r+1)
					inRound[p.Player1] = true
					inRound[p.Player2] = true
				}
			}

			require.Len(t, seen, n*(n-1)/2, "every unordered pair should be scheduled")
			for pair, count := range seen {
				assert.Equal(t, 1, count, "pair %s scheduled %d times", pair, count)
			}
		})
	}
}

func TestRoundRobinOddFieldGivesOneByeEach(t *testing.T) {
	players := []string{"A", "B", "C", "D", "E"}
	schedule := CreateRoundRobinSchedule(players)

	require.Len(t, schedule, 5, "odd field of 5 should produce 5 rounds")

	byes := make(map[string]int)
	for _, pairings := range schedule {
		assert.Len(t, pairings, 2)
		playing := make(map[string]bool)
		for _, p := range pairings {
			playing[p.Player1] = true
			playing[p.Player2] = true
		}
		for _, id := range players {
			if !playing[id] {
				byes[id]++
			}
		}
	}
	for _, id := range players {
		assert.Equal(t, 1, byes[id], "player %s should sit out exactly once", id)
	}
}

func TestRoundRobinDegenerateFields(t *testing.T) {
	assert.Nil(t, CreateRoundRobinSchedule(nil))
	assert.Nil(t, CreateRoundRobinSchedule([]string{"solo"}))

	schedule := CreateRoundRobinSchedule([]string{"A", "B"})
	require.Len(t, schedule, 1)
	require.Len(t, schedule[0], 1)
	assert.Equal(t, Pairing{Player1: "A", Player2: "B"}, schedule[0][0])
}

func TestRoundRobinDoesNotMutateInput(t *testing.T) {
	players := []string{"A", "B", "C", "D"}
	CreateRoundRobinSchedule(players)
	assert.Equal(t, []string{"A", "B", "C", "D"}, players)
}
