package server

import (
	"context"
	"fmt"

	"shifumi-plus/pkg/bot"
	"shifumi-plus/pkg/kafka"
	"shifumi-plus/pkg/models"
	"shifumi-plus/pkg/rules"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Publisher receives every round and the final game record.
type Publisher interface {
	Publish(ctx context.Context, key, kind string, v any) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, any) error { return nil }

// Referee owns one game: its state, the bot strategy and the round history.
// It is driven by a single caller and is not safe for concurrent use.
type Referee struct {
	gameID    string
	state     *models.GameState
	strategy  bot.Strategy
	publisher Publisher
	log       zerolog.Logger
	rounds    []models.RoundResult
}

type Option func(*Referee)

// WithMaxRounds sets the number of rounds; non-positive values keep the default.
func WithMaxRounds(n int) Option {
	return func(r *Referee) { r.state = models.NewGameState(n) }
}

func WithStrategy(s bot.Strategy) Option {
	return func(r *Referee) { r.strategy = s }
}

func WithPublisher(p Publisher) Option {
	return func(r *Referee) { r.publisher = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Referee) { r.log = l }
}

func WithGameID(id string) Option {
	return func(r *Referee) { r.gameID = id }
}

// NewReferee creates a referee for a fresh game with a random bot and no publisher.
func NewReferee(opts ...Option) *Referee {
	r := &Referee{
		gameID:    uuid.NewString(),
		state:     models.NewGameState(models.DefaultMaxRounds),
		strategy:  bot.NewRandom(0),
		publisher: nopPublisher{},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With().Str("game_id", r.gameID).Logger()
	return r
}

func (r *Referee) GameID() string { return r.gameID }

// State returns a copy of the current game state.
func (r *Referee) State() models.GameState { return *r.state }

func (r *Referee) GameOver() bool { return r.state.GameOver }

// Rounds returns the rounds played so far.
func (r *Referee) Rounds() []models.RoundResult {
	return append([]models.RoundResult(nil), r.rounds...)
}

// Result returns the aggregate result; Winner is only final once GameOver is true.
func (r *Referee) Result() models.GameResult {
	return models.GameResult{
		GameID:     r.gameID,
		Winner:     rules.FinalWinner(r.state),
		HumanScore: r.state.HumanScore,
		BotScore:   r.state.BotScore,
		Rounds:     r.Rounds(),
	}
}

// PlayRound plays one round with the human's normalized token.
// An invalid token wastes the round: it is scored as a draw, the bot does not
// move and the validation error is reported in the result, not returned.
func (r *Referee) PlayRound(ctx context.Context, token string) (models.RoundResult, error) {
	if r.state.GameOver {
		return models.RoundResult{}, fmt.Errorf("play round: %w", rules.ErrGameAlreadyOver)
	}

	round := models.RoundResult{GameID: r.gameID, Round: r.state.Round, Input: token}

	humanMove, err := rules.Validate(token, models.Human, r.state)
	var (
		botMove models.Move
		outcome models.RoundOutcome
	)
	if err != nil {
		r.log.Warn().Err(err).Int("round", round.Round).Str("token", token).Msg("invalid move, round wasted")
		round.Error = err.Error()
		humanMove, botMove = models.NoMove, models.NoMove
		outcome = rules.WastedRound()
	} else {
		botMove = r.strategy(bot.LegalMoves(r.state, models.Bot))
		outcome = rules.Resolve(humanMove, botMove)
	}

	if err := rules.Apply(r.state, humanMove, botMove, outcome); err != nil {
		return models.RoundResult{}, fmt.Errorf("play round %d: %w", round.Round, err)
	}

	round.HumanMove = humanMove
	round.BotMove = botMove
	round.Winner = outcome.Winner
	round.Reason = outcome.Reason
	round.HumanScore = r.state.HumanScore
	round.BotScore = r.state.BotScore
	round.GameOver = r.state.GameOver
	r.rounds = append(r.rounds, round)

	r.log.Info().
		Int("round", round.Round).
		Str("human", string(humanMove)).
		Str("bot", string(botMove)).
		Str("winner", string(outcome.Winner)).
		Str("reason", outcome.Reason).
		Msg("round resolved")

	r.publish(ctx, kafka.KindRound, round)

	if r.state.GameOver {
		result := r.Result()
		r.log.Info().
			Str("winner", string(result.Winner)).
			Int("human_score", result.HumanScore).
			Int("bot_score", result.BotScore).
			Msg("game over")
		r.publish(ctx, kafka.KindGame, result)
	}

	return round, nil
}

// publish never fails the game; a lost record is only logged.
func (r *Referee) publish(ctx context.Context, kind string, v any) {
	if err := r.publisher.Publish(ctx, r.gameID, kind, v); err != nil {
		r.log.Error().Err(err).Str("kind", kind).Msg("failed to publish record")
	}
}
