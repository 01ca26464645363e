package rules

import (
	"fmt"

	"shifumi-plus/pkg/models"
)

const (
	ReasonSameMove    = "same move"
	ReasonBomb        = "bomb beats everything"
	ReasonWastedRound = "invalid input, round wasted"
)

// beats maps each non-bomb move to the move it defeats.
var beats = map[models.Move]models.Move{
	models.Rock:     models.Scissors,
	models.Scissors: models.Paper,
	models.Paper:    models.Rock,
}

// Resolve decides a round between the human move a and the bot move b.
// Both moves must already be validated.
func Resolve(a, b models.Move) models.RoundOutcome {
	switch {
	case a == b:
		return models.RoundOutcome{Winner: models.WinnerDraw, Reason: ReasonSameMove}
	case a == models.Bomb:
		return models.RoundOutcome{Winner: models.WinnerHuman, Reason: ReasonBomb}
	case b == models.Bomb:
		return models.RoundOutcome{Winner: models.WinnerBot, Reason: ReasonBomb}
	case beats[a] == b:
		return models.RoundOutcome{Winner: models.WinnerHuman, Reason: beatsReason(a, b)}
	default:
		return models.RoundOutcome{Winner: models.WinnerBot, Reason: beatsReason(b, a)}
	}
}

// WastedRound is the outcome recorded when the human's move fails validation.
func WastedRound() models.RoundOutcome {
	return models.RoundOutcome{Winner: models.WinnerDraw, Reason: ReasonWastedRound}
}

func beatsReason(winner, loser models.Move) string {
	return fmt.Sprintf("%s beats %s", winner, loser)
}
