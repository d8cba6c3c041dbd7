package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// RecordStoreConfig connects the remote gateway to the hosted record store.
// Leave Endpoint empty to run against the in-memory mock store.
type RecordStoreConfig struct {
	Endpoint  string `validate:"omitempty,url"`
	ProjectID string `validate:"required_with=Endpoint"`
	APIKey    string `validate:"required_with=Endpoint"`
	Timeout   time.Duration
}

type Config struct {
	Port        string `validate:"required"`
	Environment string `validate:"oneof=development staging production"`
	LogLevel    slog.Level

	RecordStore RecordStoreConfig

	// DatabaseURL switches persistence to the self-hosted Postgres store
	// and takes precedence over RecordStore.
	DatabaseURL string

	RedisURL     string
	KafkaBrokers []string
}

// LoadConfig reads configuration from the environment, with .env support
// for local development.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RecordStore: RecordStoreConfig{
			Endpoint:  os.Getenv("RECORDSTORE_ENDPOINT"),
			ProjectID: os.Getenv("RECORDSTORE_PROJECT_ID"),
			APIKey:    os.Getenv("RECORDSTORE_API_KEY"),
			Timeout:   parseDuration(getEnv("RECORDSTORE_TIMEOUT", "30s")),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validate.Struct(cfg.RecordStore); err != nil {
		return nil, fmt.Errorf("invalid record store configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
