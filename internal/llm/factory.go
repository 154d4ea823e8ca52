package llm

import (
	"context"
	"fmt"
	"os"

	"adpilot/internal/config"
)

// NewClientFromConfig creates a provider client from the loaded config.
func NewClientFromConfig(ctx context.Context, cfg *config.Config) (Client, error) {
	llmCfg := cfg.LLM
	if llmCfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", llmCfg.Provider)
	}

	switch llmCfg.Provider {
	case "openai", "":
		oc := DefaultOpenAIConfig(llmCfg.APIKey)
		if llmCfg.Model != "" {
			oc.Model = llmCfg.Model
		}
		if llmCfg.BaseURL != "" {
			oc.BaseURL = llmCfg.BaseURL
		}
		oc.Timeout = cfg.GetLLMTimeout()
		return NewOpenAIClientWithConfig(oc), nil

	case "anthropic":
		ac := DefaultAnthropicConfig(llmCfg.APIKey)
		if llmCfg.Model != "" {
			ac.Model = llmCfg.Model
		}
		if llmCfg.BaseURL != "" {
			ac.BaseURL = llmCfg.BaseURL
		}
		ac.Timeout = cfg.GetLLMTimeout()
		return NewAnthropicClientWithConfig(ac), nil

	case "gemini":
		gc := DefaultGeminiConfig(llmCfg.APIKey)
		if llmCfg.Model != "" {
			gc.Model = llmCfg.Model
		}
		return NewGeminiClient(ctx, gc)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", llmCfg.Provider)
	}
}

// NewClientFromEnv creates a client from environment variables alone.
// Priority: OPENAI > ANTHROPIC > GEMINI.
func NewClientFromEnv(ctx context.Context) (Client, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return NewOpenAIClient(key), nil
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return NewAnthropicClient(key), nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return NewGeminiClient(ctx, DefaultGeminiConfig(key))
	}
	return nil, fmt.Errorf("no API key found; set one of: OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY")
}
