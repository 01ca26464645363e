package rules

import "errors"

var (
	// ErrUnknownMove is returned for a token that is not a legal move.
	ErrUnknownMove = errors.New("unknown move")
	// ErrBombAlreadyUsed is returned when a player tries to bomb twice.
	ErrBombAlreadyUsed = errors.New("bomb already used")
	// ErrGameAlreadyOver is returned when a round is applied to a finished game.
	ErrGameAlreadyOver = errors.New("game already over")
)
