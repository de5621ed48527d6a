package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EDUGEN_ENV", "EDUGEN_LOG_LEVEL", "EDUGEN_DB", "EDUGEN_HTTP_ADDR", "EDUGEN_CORS_ORIGINS",
		"EDUGEN_REDIS_URL", "EDUGEN_REDIS_SEEN_TTL", "EDUGEN_GENERATOR", "EDUGEN_REMOTE_URL",
		"EDUGEN_REMOTE_KEY", "EDUGEN_QUIZ_BATCH_SIZE", "EDUGEN_QUIZ_MAX_RETRIES",
		"EDUGEN_QUIZ_THRESHOLD", "EDUGEN_QUIZ_QUOTA", "EDUGEN_LLM_PROVIDER",
		"EDUGEN_ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "edugen", cfg.Name)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 20*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SeenTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, GeneratorLLM, cfg.Generator.Backend)

	assert.Equal(t, 5, cfg.Quiz.BatchSize)
	assert.Equal(t, 2, cfg.Quiz.MaxRetries)
	assert.InDelta(t, 0.78, cfg.Quiz.Threshold, 1e-9)
	assert.Equal(t, 15, cfg.Quiz.Quota)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDUGEN_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("EDUGEN_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("EDUGEN_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("EDUGEN_QUIZ_BATCH_SIZE", "3")
	t.Setenv("EDUGEN_QUIZ_THRESHOLD", "0.9")
	t.Setenv("EDUGEN_LLM_PROVIDER", "mock")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, "mock", cfg.LLM.Provider)

	collector := cfg.Quiz.Collector()
	assert.Equal(t, 3, collector.BatchSize)
	assert.InDelta(t, 0.9, collector.Threshold, 1e-9)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("EDUGEN_GENERATOR=remote\nEDUGEN_REMOTE_URL=http://gen.test\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("EDUGEN_GENERATOR")
		os.Unsetenv("EDUGEN_REMOTE_URL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GeneratorRemote, cfg.Generator.Backend)
	assert.Equal(t, "http://gen.test", cfg.Generator.Remote().BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Generator.Remote().Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"remote without url", map[string]string{"EDUGEN_GENERATOR": "remote"}},
		{"unknown backend", map[string]string{"EDUGEN_GENERATOR": "carrier-pigeon"}},
		{"zero batch", map[string]string{"EDUGEN_QUIZ_BATCH_SIZE": "0"}},
		{"threshold above one", map[string]string{"EDUGEN_QUIZ_THRESHOLD": "1.5"}},
		{"unparseable quota", map[string]string{"EDUGEN_QUIZ_QUOTA": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
