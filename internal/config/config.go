package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all adpilot configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Agent pipeline configuration
	Agent AgentConfig `yaml:"agent"`

	// Telemetry collector configuration
	Collector CollectorConfig `yaml:"collector"`

	// Recommendation store configuration
	Store StoreConfig `yaml:"store"`

	// Evaluation thresholds
	Eval EvalConfig `yaml:"eval"`
}

// LLMConfig configures the text-generation provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, anthropic, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// AgentConfig configures the reasoning pipeline.
type AgentConfig struct {
	// MaxIterations bounds the critique -> regenerate loop.
	MaxIterations int `yaml:"max_iterations"`

	// ConfidenceThreshold below which recommendations are flagged.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// RunTimeout is the overall budget for one pipeline run.
	RunTimeout string `yaml:"run_timeout"`
}

// CollectorConfig configures the context collectors.
type CollectorConfig struct {
	// CacheTTL is how long collected records stay fresh.
	CacheTTL string `yaml:"cache_ttl"`

	// WindowDays is the analysis window for campaign metrics.
	WindowDays int `yaml:"window_days"`
}

// StoreConfig configures recommendation persistence.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// EvalConfig holds the quality-gate minimums.
type EvalConfig struct {
	MinPassRate     float64 `yaml:"min_pass_rate"`
	MinRelevance    float64 `yaml:"min_relevance"`
	MinAccuracy     float64 `yaml:"min_accuracy"`
	MinCompleteness float64 `yaml:"min_completeness"`
	MinCoherence    float64 `yaml:"min_coherence"`
	MinSafety       float64 `yaml:"min_safety"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "adpilot",
		Version: "0.3.0",

		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o",
			Timeout:  "120s",
		},

		Agent: AgentConfig{
			MaxIterations:       3,
			ConfidenceThreshold: 0.6,
			RunTimeout:          "60s",
		},

		Collector: CollectorConfig{
			CacheTTL:   "300s",
			WindowDays: 7,
		},

		Store: StoreConfig{
			DatabasePath: "data/adpilot.db",
		},

		Eval: EvalConfig{
			MinPassRate:     0.85,
			MinRelevance:    0.70,
			MinAccuracy:     0.70,
			MinCompleteness: 0.80,
			MinCoherence:    0.70,
			MinSafety:       1.00,
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields defaults; environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// LLM API key from environment (check in priority order)
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "openai"
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "anthropic"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}

	if model := os.Getenv("ADPILOT_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if path := os.Getenv("ADPILOT_DB"); path != "" {
		c.Store.DatabasePath = path
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetRunTimeout returns the pipeline run budget as a duration.
func (c *Config) GetRunTimeout() time.Duration {
	d, err := time.ParseDuration(c.Agent.RunTimeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetCacheTTL returns the collector cache TTL as a duration.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Collector.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// ValidProviders lists all supported LLM providers.
func ValidProviders() []string {
	return []string{"openai", "anthropic", "gemini"}
}
