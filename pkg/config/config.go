package config

import (
	"fmt"
	"os"
	"strconv"

	"shifumi-plus/pkg/models"

	"github.com/joho/godotenv"
)

type Config struct {
	MaxRounds int
	BotSeed   int64

	LogLevel string
	LogJSON  bool

	// Kafka is optional; results are only published when KafkaBroker is set.
	KafkaBroker   string
	ResultsTopic  string
	ConsumerGroup string
}

// Load reads a .env file if present, then the environment.
// Malformed values keep their defaults and are reported in the returned errors.
func Load() (*Config, []error) {
	_ = godotenv.Load()

	cfg := &Config{
		MaxRounds:     models.DefaultMaxRounds,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_JSON") == "true",
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		ResultsTopic:  getEnv("RESULTS_TOPIC", "game-results"),
		ConsumerGroup: getEnv("RESULTS_GROUP", "results-tail"),
	}

	var errs []error

	if v := os.Getenv("MAX_ROUNDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("MAX_ROUNDS=%q: want a positive integer", v))
		} else {
			cfg.MaxRounds = n
		}
	}

	if v := os.Getenv("BOT_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("BOT_SEED=%q: %w", v, err))
		} else {
			cfg.BotSeed = n
		}
	}

	return cfg, errs
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
