package models

// DefaultMaxRounds is the number of rounds in a standard game.
const DefaultMaxRounds = 3

// Move is one of the four legal moves, or NoMove on a wasted round.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
	Bomb     Move = "bomb"

	// NoMove stands in for a side that did not play this round.
	NoMove Move = "none"
)

// AllMoves lists the legal moves in canonical order.
var AllMoves = []Move{Rock, Paper, Scissors, Bomb}

// Player identifies whose score and bomb flag apply.
type Player string

const (
	Human Player = "human"
	Bot   Player = "bot"
)

// Winner is the result of a round or of a whole game.
type Winner string

const (
	WinnerHuman Winner = "human"
	WinnerBot   Winner = "bot"
	WinnerDraw  Winner = "draw"
)

type RoundOutcome struct {
	Winner Winner `json:"winner"`
	Reason string `json:"reason"`
}

// GameState is owned by a single referee and mutated once per round.
type GameState struct {
	Round         int  `json:"round"`
	MaxRounds     int  `json:"max_rounds"`
	HumanScore    int  `json:"human_score"`
	BotScore      int  `json:"bot_score"`
	HumanBombUsed bool `json:"human_bomb_used"`
	BotBombUsed   bool `json:"bot_bomb_used"`
	GameOver      bool `json:"game_over"`
}

// NewGameState creates a GameState with default values.
// A non-positive maxRounds falls back to DefaultMaxRounds.
func NewGameState(maxRounds int) *GameState {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &GameState{
		Round:     1,
		MaxRounds: maxRounds,
	}
}

// BombUsed reports whether the given player has already spent their bomb.
func (s *GameState) BombUsed(p Player) bool {
	switch p {
	case Human:
		return s.HumanBombUsed
	case Bot:
		return s.BotBombUsed
	}
	return false
}

// RoundResult is published once per round on the results topic.
type RoundResult struct {
	GameID     string `json:"game_id"`
	Round      int    `json:"round"`
	Input      string `json:"input"` // the human's normalized token, for display
	HumanMove  Move   `json:"human_move"`
	BotMove    Move   `json:"bot_move"`
	Winner     Winner `json:"winner"`
	Reason     string `json:"reason"`
	Error      string `json:"error,omitempty"` // validation failure on a wasted round
	HumanScore int    `json:"human_score"`
	BotScore   int    `json:"bot_score"`
	GameOver   bool   `json:"game_over"`
}

// Wasted reports whether the round was forfeited by invalid input.
func (r RoundResult) Wasted() bool {
	return r.Error != ""
}

// GameResult is published once when a game reaches its terminal state.
type GameResult struct {
	GameID     string        `json:"game_id"`
	Winner     Winner        `json:"winner"`
	HumanScore int           `json:"human_score"`
	BotScore   int           `json:"bot_score"`
	Rounds     []RoundResult `json:"rounds"`
}
