package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":                    "",
		"OBS_LOG_FORMAT":             "",
		"OBS_ENABLE_TRACING":         "",
		"OBS_METRICS_NAMESPACE":      "",
		"CHECKOUT_WORKERS":           "",
		"CHECKOUT_TIMEZONE":          "",
		"CHECKOUT_COUPONS_FILE":      "",
		"OBS_TRACING_SAMPLING_RATIO": "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "checkout", cfg.MetricsNamespace)
	require.False(t, cfg.TracingEnabled)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 1.0, cfg.SamplingRatio)
	require.Empty(t, cfg.CouponsFile)
	require.Equal(t, "America/Sao_Paulo", cfg.Location.String())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"OBS_ENABLE_TRACING":    "yes",
		"CHECKOUT_WORKERS":      "8",
		"CHECKOUT_TIMEZONE":     "UTC",
		"CHECKOUT_COUPONS_FILE": " coupons.yaml ",
	})
	require.NoError(t, err)
	require.True(t, cfg.TracingEnabled)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, "coupons.yaml", cfg.CouponsFile)
	require.Equal(t, time.UTC, cfg.Location)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := LoadForTests(map[string]string{"CHECKOUT_TIMEZONE": "Mars/Olympus"})
	require.ErrorContains(t, err, "CHECKOUT_TIMEZONE")

	_, err = LoadForTests(map[string]string{"CHECKOUT_WORKERS": "0", "CHECKOUT_TIMEZONE": "UTC"})
	require.ErrorContains(t, err, "CHECKOUT_WORKERS")
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	cfg := &Config{Location: loc}
	now := time.Date(2025, time.November, 5, 1, 30, 0, 0, time.UTC)
	y, m, d := cfg.Today(now).Date()
	require.Equal(t, 2025, y)
	require.Equal(t, time.November, m)
	require.Equal(t, 4, d)

	var empty Config
	require.Equal(t, time.UTC, empty.Today(now).Location())
}
