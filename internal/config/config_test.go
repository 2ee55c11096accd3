package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 5*time.Minute, cfg.AnalysisTimeout)
	assert.Equal(t, 60*time.Second, cfg.DBConnectMaxElapsed)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.UseStubGenerator())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("AI_PROVIDER", "stub")
	t.Setenv("ANALYSIS_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.UseStubGenerator())
	assert.Equal(t, 90*time.Second, cfg.AnalysisTimeout)
}

func TestUseStubGeneratorCaseInsensitive(t *testing.T) {
	t.Setenv("AI_PROVIDER", "STUB")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseStubGenerator())
}
