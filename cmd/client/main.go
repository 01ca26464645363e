package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shifumi-plus/api/client"
	"shifumi-plus/api/server"
	"shifumi-plus/pkg/bot"
	"shifumi-plus/pkg/config"
	"shifumi-plus/pkg/kafka"
	"shifumi-plus/pkg/logging"
)

func main() {
	cfg, errs := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogJSON)
	for _, err := range errs {
		logger.Warn().Err(err).Msg("ignoring invalid setting")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.Option{
		server.WithMaxRounds(cfg.MaxRounds),
		server.WithStrategy(bot.NewRandom(cfg.BotSeed)),
		server.WithLogger(logger),
	}

	if cfg.KafkaBroker != "" {
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := kafka.WaitForKafka(waitCtx, cfg.KafkaBroker, []string{cfg.ResultsTopic}, time.Second, logger)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("kafka unavailable")
		}

		publisher := kafka.NewPublisher([]string{cfg.KafkaBroker}, cfg.ResultsTopic, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error().Err(err).Msg("closing kafka writer")
			}
		}()
		opts = append(opts, server.WithPublisher(publisher))
	}

	referee := server.NewReferee(opts...)
	logger.Debug().Str("game_id", referee.GameID()).Int("max_rounds", cfg.MaxRounds).Msg("game started")

	_, err := client.NewConsole(referee, os.Stdin, os.Stdout).Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, context.Canceled):
		logger.Info().Str("game_id", referee.GameID()).Msg("game abandoned")
	default:
		logger.Error().Err(err).Msg("game aborted")
	}
}
