package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
)

// EnvPrefix is prepended to every variable ConfigFromEnv reads.
const EnvPrefix = "EDUGEN_"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `env:"LLM_PROVIDER" envDefault:"anthropic"`

	Anthropic  AnthropicConfig  `envPrefix:"ANTHROPIC_"`
	OpenAI     OpenAIConfig     `envPrefix:"OPENAI_"`
	Gemini     GeminiConfig     `envPrefix:"GEMINI_"`
	OpenRouter OpenRouterConfig `envPrefix:"OPENROUTER_"`
	Retry      RetryConfig      `envPrefix:"LLM_RETRY_"`

	// Timeout is the maximum duration for a single LLM request
	// (including retries).
	Timeout time.Duration `env:"LLM_TIMEOUT" envDefault:"90s"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"claude-haiku"`
	BaseURL string `env:"BASE_URL"` // Optional. Proxy or gateway in front of the API.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"` // Optional. Any OpenAI-compatible endpoint.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gemini-flash"`
	BaseURL string `env:"BASE_URL"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"google/gemini-2.0-flash-exp"`
	BaseURL string `env:"BASE_URL"` // Default: https://openrouter.ai/api/v1

	// Referer and Title are sent as the OpenRouter app attribution headers.
	Referer string `env:"REFERER" envDefault:"https://github.com/edugen/edugen"`
	Title   string `env:"TITLE" envDefault:"edugen"`

	// Timeout bounds a single HTTP exchange. Routed free-tier models can
	// queue for a long time, so this is tighter than LLM_TIMEOUT and lets a
	// retry try again inside the overall budget.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"45s"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MULTIPLIER" envDefault:"2"`
}

// DefaultConfig returns the configuration ConfigFromEnv yields with an
// empty environment.
func DefaultConfig() Config {
	var cfg Config
	// Only envDefault values apply, and they are all valid.
	_ = env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: map[string]string{}})
	return cfg
}

// ConfigFromEnv builds a Config from EDUGEN_* environment variables,
// falling back to defaults for unset values. When EDUGEN_LLM_PROVIDER is
// unset and the selected provider has no key, the standard provider
// variables (GEMINI_API_KEY, OPENAI_API_KEY...) are checked.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse LLM config: %w", err)
	}
	if os.Getenv(EnvPrefix+"LLM_PROVIDER") == "" && cfg.Validate() != nil {
		if discovered, ok := DiscoverConfig(); ok {
			discovered.Retry = cfg.Retry
			discovered.Timeout = cfg.Timeout
			return discovered, nil
		}
	}
	return cfg, nil
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none
// is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	missing := func(name string) error {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", EnvPrefix, name, c.Provider)
	}
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("ANTHROPIC")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("OPENAI")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("GEMINI")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("OPENROUTER")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
