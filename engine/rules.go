package engine

// GameRules holds configurable game rule settings.
type GameRules struct {
	MinValue    int // lowest legal move value
	MaxValue    int // highest legal move value
	TotalRounds int // rounds per game
}

// DefaultGameRules returns the standard Odd/Even rules: moves in [1,10],
// five rounds per game.
func DefaultGameRules() GameRules {
	return GameRules{
		MinValue:    1,
		MaxValue:    10,
		TotalRounds: 5,
	}
}

// CalculateResult applies the parity law to one round. The sum of both moves
// decides the winner: the player holding the ParityOdd role wins when the sum
// is odd, the ParityEven player when it is even. Pure function, safe to share
// across concurrent games.
func CalculateResult(move1, move2 int, player1Role Parity) (sum int, isOdd bool, player1Wins bool) {
	sum = move1 + move2
	isOdd = ParityOf(sum) == ParityOdd
	if player1Role == ParityOdd {
		player1Wins = isOdd
	} else {
		player1Wins = !isOdd
	}
	return sum, isOdd, player1Wins
}

// DetermineGameWinner returns the ID of the higher-scoring player, or the
// empty string on an exact tie. Ties are legal at the game level even though
// impossible at the round level, since round counts may be even.
func DetermineGameWinner(score1, score2 int, id1, id2 string) string {
	switch {
	case score1 > score2:
		return id1
	case score2 > score1:
		return id2
	}
	return ""
}
