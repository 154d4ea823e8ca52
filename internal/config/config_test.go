package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "adpilot", cfg.Name)
	assert.Equal(t, 3, cfg.Agent.MaxIterations)
	assert.Equal(t, 0.6, cfg.Agent.ConfidenceThreshold)
	assert.Equal(t, 7, cfg.Collector.WindowDays)
	assert.Equal(t, 1.00, cfg.Eval.MinSafety)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Agent.MaxIterations, cfg.Agent.MaxIterations)
}

func TestLoad_ParsesYAMLAndKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
agent:
  max_iterations: 5
  run_timeout: 30s
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Agent.MaxIterations)
	assert.Equal(t, 30*time.Second, cfg.GetRunTimeout())
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	// Untouched sections keep defaults.
	assert.Equal(t, 0.85, cfg.Eval.MinPassRate)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "sk-test-gemini")
	t.Setenv("ADPILOT_DB", "/tmp/override.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "sk-test-gemini", cfg.LLM.APIKey)
	assert.Equal(t, "/tmp/override.db", cfg.Store.DatabasePath)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "garbage"
	cfg.Agent.RunTimeout = ""
	cfg.Collector.CacheTTL = "bad"

	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, 60*time.Second, cfg.GetRunTimeout())
	assert.Equal(t, 5*time.Minute, cfg.GetCacheTTL())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Agent.MaxIterations = 2
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Agent.MaxIterations)
}
