package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edugen/edugen/internal/store"
)

// NewProvider creates a Provider from configuration.
// The base provider is wrapped as caller → timeout → retry → logging → base.
// eventRepo may be nil, in which case requests are only logged.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger zerolog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}

// NewProviderFromEnv reads the configuration from the environment and
// builds the decorated provider.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, logger zerolog.Logger) (Provider, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo, logger)
}
