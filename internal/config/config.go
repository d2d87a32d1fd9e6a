package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string        `env:"ADDR" validate:"required"`
	DBPath           string        `env:"DB_PATH" validate:"required"`
	LogLevel         string        `env:"LOG_LEVEL" validate:"required,oneof=DEBUG INFO WARN WARNING ERROR"`
	DefaultWindow    int           `env:"DEFAULT_WINDOW" validate:"min=1"`
	MaxDocumentBytes int64         `env:"MAX_DOCUMENT_BYTES" validate:"min=1024"`
	SessionTTL       time.Duration `env:"SESSION_TTL" validate:"min=1m"`
	SweepInterval    time.Duration `env:"SWEEP_INTERVAL" validate:"min=1s"`
	APIRateLimit     float64       `env:"API_RATE_LIMIT" validate:"gt=0"`
	APIRateBurst     int           `env:"API_RATE_BURST" validate:"min=1"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr: envOr("ADDR", "127.0.0.1:8080"),
		// Shared-cache in-memory database: sessions live only as long as the process.
		DBPath:           envOr("DB_PATH", "file:bestofn?mode=memory&cache=shared"),
		LogLevel:         strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		DefaultWindow:    envIntOr("DEFAULT_WINDOW", 6),
		MaxDocumentBytes: int64(envIntOr("MAX_DOCUMENT_BYTES", 5<<20)),
		SessionTTL:       envDurationOr("SESSION_TTL", 2*time.Hour),
		SweepInterval:    envDurationOr("SWEEP_INTERVAL", 5*time.Minute),
		APIRateLimit:     envFloatOr("API_RATE_LIMIT", 10),
		APIRateBurst:     envIntOr("API_RATE_BURST", 20),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report env variable names so messages match what the operator sets.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate checks every field and returns all problems joined together.
// LOG_LEVEL is compared case-insensitively.
func (c Config) Validate() error {
	c.LogLevel = strings.ToUpper(c.LogLevel)

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " cannot be empty"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be >= %s, got %v", name, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", name, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
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

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
