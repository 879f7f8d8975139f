package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	AuthTokenSecret    string
	AuthTokenTTL       time.Duration
	SessionTTL         time.Duration
	SessionIdleTimeout time.Duration
	CleanupInterval    time.Duration
	RetryWorkerCount   int
	RetryQueueSize     int
	ChoiceCount        int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:kanaflash.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		AuthTokenSecret:    envOr("AUTH_TOKEN_SECRET", ""),
		AuthTokenTTL:       time.Duration(envIntOr("AUTH_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		SessionTTL:         time.Duration(envIntOr("SESSION_TTL_HOURS", 720)) * time.Hour,
		SessionIdleTimeout: time.Duration(envIntOr("PRACTICE_IDLE_MINUTES", 30)) * time.Minute,
		CleanupInterval:    time.Duration(envIntOr("CLEANUP_INTERVAL_MINUTES", 60)) * time.Minute,
		RetryWorkerCount:   envIntOr("RETRY_WORKER_COUNT", 1),
		RetryQueueSize:     envIntOr("RETRY_QUEUE_SIZE", 64),
		ChoiceCount:        envIntOr("CHOICE_COUNT", 4),
	}
}

// Validate checks the loaded configuration and reports every problem found.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.AuthTokenSecret == "" {
		problems = append(problems, "AUTH_TOKEN_SECRET cannot be empty")
	}
	if c.AuthTokenTTL <= 0 {
		problems = append(problems, "AUTH_TOKEN_TTL_MINUTES must be positive")
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL_HOURS must be positive")
	}
	if c.SessionIdleTimeout <= 0 {
		problems = append(problems, "PRACTICE_IDLE_MINUTES must be positive")
	}
	if c.CleanupInterval <= 0 {
		problems = append(problems, "CLEANUP_INTERVAL_MINUTES must be positive")
	}
	if c.RetryWorkerCount <= 0 {
		problems = append(problems, "RETRY_WORKER_COUNT must be positive")
	}
	if c.RetryQueueSize <= 0 {
		problems = append(problems, "RETRY_QUEUE_SIZE must be positive")
	}
	if c.ChoiceCount < 2 {
		problems = append(problems, "CHOICE_COUNT must be at least 2")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
