package rules

import (
	"fmt"
	"strings"

	"shifumi-plus/pkg/models"
)

// Normalize trims surrounding whitespace and lower-cases a raw token.
// It belongs to the input boundary; Validate expects an already normalized token.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Validate checks a normalized token against the legal moves and the
// single-use bomb rule. It reads only the bomb flags and never mutates state.
func Validate(token string, player models.Player, state *models.GameState) (models.Move, error) {
	move, ok := parseMove(token)
	if !ok {
		return models.NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, token)
	}

	if move == models.Bomb && state.BombUsed(player) {
		return models.NoMove, fmt.Errorf("%w by %s", ErrBombAlreadyUsed, player)
	}

	return move, nil
}

func parseMove(token string) (models.Move, bool) {
	for _, m := range models.AllMoves {
		if token == string(m) {
			return m, true
		}
	}
	return models.NoMove, false
}
