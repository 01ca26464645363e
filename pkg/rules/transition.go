package rules

import (
	"fmt"

	"shifumi-plus/pkg/models"
)

// Apply commits the consequences of a round to state: bomb consumption,
// score, round counter and the terminal check. The update is built on a copy
// and assigned in one step, so a refused call leaves state untouched.
func Apply(state *models.GameState, a, b models.Move, outcome models.RoundOutcome) error {
	if state.GameOver {
		return fmt.Errorf("%w: round %d of %d", ErrGameAlreadyOver, state.Round, state.MaxRounds)
	}

	next := *state

	if a == models.Bomb {
		next.HumanBombUsed = true
	}
	if b == models.Bomb {
		next.BotBombUsed = true
	}

	switch outcome.Winner {
	case models.WinnerHuman:
		next.HumanScore++
	case models.WinnerBot:
		next.BotScore++
	}

	next.Round++
	if next.Round > next.MaxRounds {
		next.GameOver = true
	}

	*state = next
	return nil
}

// FinalWinner compares the final tallies.
func FinalWinner(state *models.GameState) models.Winner {
	switch {
	case state.HumanScore > state.BotScore:
		return models.WinnerHuman
	case state.BotScore > state.HumanScore:
		return models.WinnerBot
	default:
		return models.WinnerDraw
	}
}
