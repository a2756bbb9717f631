package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	RedisURL    string
	DataDir     string
	TriggerFile string
	WorkerID    string
	GameLockTTL time.Duration
}

func Load() (*Config, error) {
	lockTTL, err := time.ParseDuration(getEnv("GAME_LOCK_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GAME_LOCK_TTL: %w", err)
	}
	if lockTTL <= 0 {
		return nil, fmt.Errorf("GAME_LOCK_TTL must be positive, got %s", lockTTL)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		TriggerFile: getEnv("TRIGGER_FILE", "item_triggers.yml"),
		WorkerID:    os.Getenv("WORKER_ID"),
		GameLockTTL: lockTTL,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
