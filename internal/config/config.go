package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv           string
	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	TracingEnabled   bool
	TracingExporter  string
	OTLPEndpoint     string
	SamplingRatio    float64
	CouponsFile      string
	Location         *time.Location
	Workers          int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:           valueOrDefault(k.String("APP_ENV"), "development"),
		LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "checkout"),
		TracingEnabled:   parseBool(k.String("OBS_ENABLE_TRACING")),
		TracingExporter:  valueOrDefault(k.String("OBS_TRACING_EXPORTER"), "otlp"),
		OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
		SamplingRatio:    parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
		CouponsFile:      strings.TrimSpace(k.String("CHECKOUT_COUPONS_FILE")),
		Workers:          parseInt(k.String("CHECKOUT_WORKERS"), 4),
	}

	tz := valueOrDefault(k.String("CHECKOUT_TIMEZONE"), "America/Sao_Paulo")
	loc, err := time.LoadLocation(strings.TrimSpace(tz))
	if err != nil {
		return nil, fmt.Errorf("CHECKOUT_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("CHECKOUT_WORKERS must be positive, got %d", cfg.Workers)
	}
	return cfg, nil
}

// Today converts now to the configured location. Callers take the calendar date from the result.
func (c *Config) Today(now time.Time) time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc)
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(value string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}

func parseFloat(value string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return v
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	previous := make(map[string]string, len(env))
	for key := range env {
		previous[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(previous)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
