package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"shifumi-plus/pkg/kafka"
	"shifumi-plus/pkg/models"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

// TailResults streams the results topic to w, one line per record, until ctx
// is done or the reader fails. Undecodable records are logged and skipped.
func TailResults(ctx context.Context, reader kafka.MessageReader, w io.Writer, log zerolog.Logger) error {
	return kafka.ReadMessages(ctx, reader, func(msg kafkago.Message) error {
		line, err := formatRecord(msg)
		if err != nil {
			log.Warn().Err(err).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("skipping record")
			return nil
		}
		_, err = fmt.Fprintln(w, line)
		return err
	})
}

func formatRecord(msg kafkago.Message) (string, error) {
	switch kind := kafka.Kind(msg); kind {
	case kafka.KindRound:
		var r models.RoundResult
		if err := json.Unmarshal(msg.Value, &r); err != nil {
			return "", fmt.Errorf("decode round record: %w", err)
		}
		line := fmt.Sprintf("[%s] round %d: %s vs %s -> %s (%s) | %d-%d",
			r.GameID, r.Round, r.HumanMove, r.BotMove, r.Winner, r.Reason, r.HumanScore, r.BotScore)
		if r.Wasted() {
			line += " | " + r.Error
		}
		return line, nil
	case kafka.KindGame:
		var g models.GameResult
		if err := json.Unmarshal(msg.Value, &g); err != nil {
			return "", fmt.Errorf("decode game record: %w", err)
		}
		return fmt.Sprintf("[%s] game over after %d rounds: winner %s | %d-%d",
			g.GameID, len(g.Rounds), g.Winner, g.HumanScore, g.BotScore), nil
	default:
		return "", fmt.Errorf("unknown record kind %q", kind)
	}
}
