package llm

import (
	"os"
	"testing"
	"time"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EDUGEN_LLM_PROVIDER", "EDUGEN_ANTHROPIC_API_KEY", "EDUGEN_OPENAI_API_KEY",
		"EDUGEN_GEMINI_API_KEY", "EDUGEN_OPENROUTER_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" || cfg.Anthropic.Model != "claude-haiku" {
		t.Errorf("models = %q / %q", cfg.OpenAI.Model, cfg.Anthropic.Model)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.InitialWait != time.Second || cfg.Retry.Multiplier != 2 {
		t.Errorf("retry = %+v", cfg.Retry)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("EDUGEN_LLM_PROVIDER", "openai")
	t.Setenv("EDUGEN_OPENAI_API_KEY", "sk-test")
	t.Setenv("EDUGEN_OPENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("EDUGEN_LLM_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("EDUGEN_LLM_TIMEOUT", "2m")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.OpenAI.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("base URL = %q", cfg.OpenAI.BaseURL)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Timeout != 2*time.Minute {
		t.Errorf("retry/timeout = %+v / %s", cfg.Retry, cfg.Timeout)
	}
}

func TestConfigFromEnv_DiscoversPlainKeys(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-plain")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-plain" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestConfigFromEnv_ExplicitProviderWins(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("EDUGEN_LLM_PROVIDER", "gemini")
	t.Setenv("OPENAI_API_KEY", "sk-plain")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Fatalf("provider = %q", cfg.Provider)
	}
	if cfg.Validate() == nil {
		t.Fatal("expected missing gemini key to fail validation")
	}
}

func TestConfigFromEnv_BadDuration(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("EDUGEN_LLM_TIMEOUT", "soon")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
