package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 100, cfg.Scoring.Weights.Total())
	require.Equal(t, int64(10*1024*1024), cfg.Limits.MaxDocumentBytes)
	require.Equal(t, 100, cfg.Limits.MaxSchemaDepth)
	require.Equal(t, 8, cfg.Worker.EvalPoolSize)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Server.Port = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Scoring.Weights.Security = 99
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Limits.MaxDocumentBytes = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Worker.EvalPoolSize = -1
	require.Error(t, cfg.Validate())
}
