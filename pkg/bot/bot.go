package bot

import (
	"math/rand"
	"time"

	"shifumi-plus/pkg/models"
)

// Strategy picks one move from the moves currently legal for the bot.
// legal is never empty.
type Strategy func(legal []models.Move) models.Move

// LegalMoves returns the moves player may submit in the current state:
// rock, paper and scissors, plus bomb while it is unused.
func LegalMoves(state *models.GameState, player models.Player) []models.Move {
	legal := []models.Move{models.Rock, models.Paper, models.Scissors}
	if !state.BombUsed(player) {
		legal = append(legal, models.Bomb)
	}
	return legal
}

// Random picks uniformly among the legal moves.
func Random(rng *rand.Rand) Strategy {
	return func(legal []models.Move) models.Move {
		return legal[rng.Intn(len(legal))]
	}
}

// NewRandom returns a uniform strategy seeded with seed, or with the
// current time when seed is zero.
func NewRandom(seed int64) Strategy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return Random(rand.New(rand.NewSource(seed)))
}

// Sequence replays moves in order, wrapping around at the end.
// A scripted move that is not currently legal is replaced by the first legal move.
func Sequence(moves ...models.Move) Strategy {
	i := 0
	return func(legal []models.Move) models.Move {
		if len(moves) == 0 {
			return legal[0]
		}
		m := moves[i%len(moves)]
		i++
		for _, l := range legal {
			if l == m {
				return m
			}
		}
		return legal[0]
	}
}
