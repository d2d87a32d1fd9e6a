package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/bestofn/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		DBPath:           "file:test?mode=memory",
		LogLevel:         "INFO",
		DefaultWindow:    6,
		MaxDocumentBytes: 1 << 20,
		SessionTTL:       time.Hour,
		SweepInterval:    time.Minute,
		APIRateLimit:     10,
		APIRateBurst:     20,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidDefaultWindow(t *testing.T) {
	tests := []struct {
		name   string
		window int
	}{
		{name: "zero", window: 0},
		{name: "negative", window: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.DefaultWindow = tt.window

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "DEFAULT_WINDOW")
		})
	}
}

func TestValidate_LargeDefaultWindow(t *testing.T) {
	cfg := validConfig()
	cfg.DefaultWindow = 50

	assert.NoError(t, cfg.Validate())
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "invalid level", level: "INVALID"},
		{name: "empty level", level: ""},
		{name: "lowercase valid level", level: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.level == "debug" {
				// Lowercase is accepted.
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidate_Limits(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{"tiny document limit", func(c *config.Config) { c.MaxDocumentBytes = 10 }, "MAX_DOCUMENT_BYTES"},
		{"short session ttl", func(c *config.Config) { c.SessionTTL = time.Second }, "SESSION_TTL"},
		{"zero sweep interval", func(c *config.Config) { c.SweepInterval = 0 }, "SWEEP_INTERVAL"},
		{"zero rate limit", func(c *config.Config) { c.APIRateLimit = 0 }, "API_RATE_LIMIT"},
		{"zero burst", func(c *config.Config) { c.APIRateBurst = 0 }, "API_RATE_BURST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{LogLevel: "INVALID"}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "DEFAULT_WINDOW")
	assert.Contains(t, errStr, "MAX_DOCUMENT_BYTES")
	assert.Contains(t, errStr, "API_RATE_BURST")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "DEFAULT_WINDOW", "SESSION_TTL"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Contains(t, cfg.DBPath, "mode=memory")
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 6, cfg.DefaultWindow)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_WINDOW", "7")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("API_RATE_LIMIT", "2.5")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 7, cfg.DefaultWindow)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2.5, cfg.APIRateLimit)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DEFAULT_WINDOW", "six")
	t.Setenv("SESSION_TTL", "forever")

	cfg := config.Load()

	assert.Equal(t, 6, cfg.DefaultWindow)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}
