package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FemiElu/movaa-park-api/internal/config"
)

// TestLoad_defaults verifies that every variable falls back to its
// default when the environment is empty.
func TestLoad_defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("HOLD_MINUTES", "")
	t.Setenv("HORIZON_DAYS", "")
	t.Setenv("MAX_BODY_BYTES", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, 10, cfg.HoldMinutes)
	require.Equal(t, 90, cfg.HorizonDays)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("HOLD_MINUTES", "15")
	t.Setenv("HORIZON_DAYS", "30")
	t.Setenv("MAX_BODY_BYTES", "2048")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 15, cfg.HoldMinutes)
	require.Equal(t, 30, cfg.HorizonDays)
	require.Equal(t, int64(2048), cfg.MaxBodyBytes)
}

// TestLoad_badHoldMinutes verifies that a non-numeric or non-positive
// hold window is rejected with an error naming the variable.
func TestLoad_badHoldMinutes(t *testing.T) {
	t.Setenv("HOLD_MINUTES", "soon")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "HOLD_MINUTES")
}

func TestLoad_zeroHorizonRejected(t *testing.T) {
	t.Setenv("HOLD_MINUTES", "")
	t.Setenv("HORIZON_DAYS", "0")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "HORIZON_DAYS")
}
