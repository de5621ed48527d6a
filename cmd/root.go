package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edugen/edugen/internal/config"
	"github.com/edugen/edugen/internal/content"
	"github.com/edugen/edugen/internal/llm"
	"github.com/edugen/edugen/internal/logging"
	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/quizgen"
	"github.com/edugen/edugen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "edugen",
	Short: "Build quizzes from study material",
	Long: "edugen turns study material into multiple-choice and true-false quizzes,\n" +
		"keeps them in a local question bank, exports them as PDF and plays them in the terminal.",
	SilenceUsage: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EDUGEN_DB env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default .env)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides EDUGEN_LOG_LEVEL)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command) (*config.App, zerolog.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, logging.New(cfg.Name, cfg.Env, cfg.LogLevel), nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then EDUGEN_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.App) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command, cfg *config.App) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newProvider builds the decorated LLM provider. Requests are recorded in
// the store's event log when st is not nil.
func newProvider(ctx context.Context, cfg *config.App, st *store.Store, logger zerolog.Logger) (llm.Provider, error) {
	var repo store.EventRepo
	if st != nil {
		repo = st.EventRepo()
	}
	p, err := llm.NewProvider(ctx, cfg.LLM, repo, logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	return p, nil
}

// newGenerator returns the configured question generation backend.
// provider may be nil when the remote backend is selected.
func newGenerator(cfg *config.App, provider llm.Provider, logger zerolog.Logger) (quiz.Generator, error) {
	switch cfg.Generator.Backend {
	case config.GeneratorRemote:
		return quizgen.NewRemote(cfg.Generator.Remote(), logger), nil
	default:
		if provider == nil {
			return nil, fmt.Errorf("the %s generator needs an LLM provider", config.GeneratorLLM)
		}
		return quizgen.New(provider, cfg.Quiz.Generation(), logger), nil
	}
}

func newContentService(cfg *config.App, provider llm.Provider, logger zerolog.Logger) *content.Service {
	ccfg := content.DefaultConfig()
	ccfg.ContextLimit = cfg.Quiz.ContextLimit
	return content.NewService(provider, ccfg, logger)
}

// readSource reads study material from path, or from stdin when path is
// empty or "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("source is empty")
	}
	return text, nil
}

// userError returns the message to show for err: the friendly message of
// backend and provider failures, the error text otherwise.
func userError(err error) string {
	var be *quiz.BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	if msg := llm.UserMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}
