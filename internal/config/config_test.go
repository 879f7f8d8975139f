package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hinata/kanaflash/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		DBPath:             "test.db",
		LogLevel:           "INFO",
		AuthTokenSecret:    "secret",
		AuthTokenTTL:       time.Hour,
		SessionTTL:         24 * time.Hour,
		SessionIdleTimeout: 30 * time.Minute,
		CleanupInterval:    time.Hour,
		RetryWorkerCount:   1,
		RetryQueueSize:     64,
		ChoiceCount:        4,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "LOUD"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_MissingTokenSecret(t *testing.T) {
	cfg := validConfig()
	cfg.AuthTokenSecret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_TOKEN_SECRET")
}

func TestValidate_ChoiceCountTooSmall(t *testing.T) {
	cfg := validConfig()
	cfg.ChoiceCount = 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHOICE_COUNT")
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg := config.Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, 4, cfg.ChoiceCount)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CHOICE_COUNT", "6")
	t.Setenv("RETRY_QUEUE_SIZE", "not-a-number")

	cfg := config.Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 6, cfg.ChoiceCount)
	assert.Equal(t, 64, cfg.RetryQueueSize, "unparseable value falls back to the default")
}
