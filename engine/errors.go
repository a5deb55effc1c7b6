package engine

import "errors"

// Error kinds raised by the game state machine. All are returned synchronously
// from the violating call, wrapped with a message naming the broken invariant;
// none are retryable.
var (
	// ErrInvalidMove: move value outside the configured bounds.
	ErrInvalidMove = errors.New("invalid move")
	// ErrInvalidGameState: operation invoked in an illegal phase. Always a
	// programming-contract violation by the caller.
	ErrInvalidGameState = errors.New("invalid game state")
	// ErrUnknownPlayer: player ID is not one of the two registered players.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrDuplicateMove: same player submitted twice in one round.
	ErrDuplicateMove = errors.New("duplicate move")
)
