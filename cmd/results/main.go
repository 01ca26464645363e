package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shifumi-plus/api"
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

	if cfg.KafkaBroker == "" {
		logger.Fatal().Msg("KAFKA_BROKER environment variable is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := kafka.NewKafkaReader([]string{cfg.KafkaBroker}, cfg.ResultsTopic, cfg.ConsumerGroup)
	defer func() {
		logger.Info().Str("topic", cfg.ResultsTopic).Msg("closing kafka reader")
		if err := reader.Close(); err != nil {
			logger.Error().Err(err).Msg("closing kafka reader")
		}
	}()

	logger.Info().Str("topic", cfg.ResultsTopic).Str("group", cfg.ConsumerGroup).Msg("tailing results")
	if err := api.TailResults(ctx, reader, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("results tail stopped")
	}
}
