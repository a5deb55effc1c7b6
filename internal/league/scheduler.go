package league

// Pairing is one scheduled head-to-head between two player IDs.
type Pairing struct {
	Player1 string
	Player2 string
}

// byeSlot pads an odd field so the rotation stays balanced; pairings against
// it are dropped, giving that player a bye for the round.
const byeSlot = ""

// CreateRoundRobinSchedule builds a classic rotation schedule: the first
// player stays fixed while the rest rotate one position each round. Every
// unordered pair meets exactly once and no player appears twice in a round.
// An even field of n players yields n-1 rounds; an odd field yields n rounds
// with each player sitting out exactly once.
func CreateRoundRobinSchedule(playerIDs []string) [][]Pairing {
	if len(playerIDs) < 2 {
		return nil
	}

	ring := make([]string, len(playerIDs))
	copy(ring, playerIDs)
	if len(ring)%2 != 0 {
		ring = append(ring, byeSlot)
	}

	n := len(ring)
	rounds := make([][]Pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		pairings := make([]Pairing, 0, n/2)
		for i := 0; i < n/2; i++ {
			p1, p2 := ring[i], ring[n-1-i]
			if p1 == byeSlot || p2 == byeSlot {
				continue
			}
			pairings = append(pairings, Pairing{Player1: p1, Player2: p2})
		}
		rounds = append(rounds, pairings)

		// Rotate everyone but ring[0] one step clockwise.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return rounds
}
