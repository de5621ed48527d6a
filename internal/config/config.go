// Package config loads edugen's runtime configuration from EDUGEN_*
// environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/edugen/edugen/internal/llm"
	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/quizgen"
)

// Prefix is prepended to every variable Load reads.
const Prefix = llm.EnvPrefix

// Generator backends.
const (
	GeneratorLLM    = "llm"
	GeneratorRemote = "remote"
)

// App holds core runtime configuration shared across commands.
type App struct {
	Name            string        `env:"APP_NAME" envDefault:"edugen"`
	Env             string        `env:"ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DB              string        `env:"DB"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"20s"`
	PDFFont         string        `env:"PDF_FONT"`

	CORS      CORS
	Redis     Redis     `envPrefix:"REDIS_"`
	Generator Generator
	Quiz      Quiz `envPrefix:"QUIZ_"`
	LLM       llm.Config
}

// CORS holds the HTTP API's cross-origin allow-list.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://127.0.0.1:3000"`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"300"`
}

// Redis configures the shared seen-key registry. An empty URL keeps seen
// keys in memory.
type Redis struct {
	URL     string        `env:"URL"`
	SeenTTL time.Duration `env:"SEEN_TTL" envDefault:"24h"`
}

// Generator selects the question generation backend.
type Generator struct {
	Backend       string        `env:"GENERATOR" envDefault:"llm"`
	RemoteURL     string        `env:"REMOTE_URL"`
	RemoteKey     string        `env:"REMOTE_KEY"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"60s"`
}

// Quiz groups collection defaults.
type Quiz struct {
	BatchSize    int     `env:"BATCH_SIZE" envDefault:"5"`
	MaxRetries   int     `env:"MAX_RETRIES" envDefault:"2"`
	Threshold    float64 `env:"THRESHOLD" envDefault:"0.78"`
	Quota        int     `env:"QUOTA" envDefault:"15"`
	ContextLimit int     `env:"CONTEXT_LIMIT" envDefault:"15000"`
	ExcludeLimit int     `env:"EXCLUDE_LIMIT" envDefault:"30"`
}

// Collector returns the collector settings.
func (q Quiz) Collector() quiz.Config {
	cfg := quiz.DefaultConfig()
	cfg.BatchSize = q.BatchSize
	cfg.MaxRetries = q.MaxRetries
	cfg.Threshold = q.Threshold
	return cfg
}

// Generation returns the LLM generator settings.
func (q Quiz) Generation() quizgen.Config {
	cfg := quizgen.DefaultConfig()
	cfg.ContextLimit = q.ContextLimit
	cfg.ExcludeLimit = q.ExcludeLimit
	return cfg
}

// Remote returns the remote generator settings.
func (g Generator) Remote() quizgen.RemoteConfig {
	return quizgen.RemoteConfig{BaseURL: g.RemoteURL, APIKey: g.RemoteKey, Timeout: g.RemoteTimeout}
}

// Load reads envFile (when it exists) into the environment, then parses
// the environment into App. An empty envFile means ".env".
func Load(envFile string) (*App, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	llmCfg, err := llm.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.LLM = llmCfg

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot.
func (a *App) Validate() error {
	switch a.Generator.Backend {
	case GeneratorLLM:
	case GeneratorRemote:
		if a.Generator.RemoteURL == "" {
			return fmt.Errorf("%sREMOTE_URL is required for the remote generator", Prefix)
		}
	default:
		return fmt.Errorf("unknown generator backend %q", a.Generator.Backend)
	}
	if a.Quiz.BatchSize < 1 {
		return fmt.Errorf("%sQUIZ_BATCH_SIZE must be at least 1", Prefix)
	}
	if a.Quiz.MaxRetries < 0 {
		return fmt.Errorf("%sQUIZ_MAX_RETRIES must not be negative", Prefix)
	}
	if a.Quiz.Threshold <= 0 || a.Quiz.Threshold > 1 {
		return fmt.Errorf("%sQUIZ_THRESHOLD must be in (0, 1]", Prefix)
	}
	if a.Quiz.Quota < 1 {
		return fmt.Errorf("%sQUIZ_QUOTA must be at least 1", Prefix)
	}
	return nil
}
