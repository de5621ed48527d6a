// Package quizgen provides the question generation collaborators used by
// the collector: one backed by an LLM provider and one calling a remote
// generation service over HTTP.
package quizgen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edugen/edugen/internal/llm"
	"github.com/edugen/edugen/internal/quiz"
)

// LLMGenerator implements quiz.Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   zerolog.Logger
}

var _ quiz.Generator = (*LLMGenerator)(nil)

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger zerolog.Logger) *LLMGenerator {
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		logger:   logger.With().Str("component", "quizgen").Logger(),
	}
}

// Generate asks the provider for one batch of questions. Records come back
// unvalidated; records without a "type" are tagged with the requested kind.
func (g *LLMGenerator) Generate(ctx context.Context, req quiz.GenerateRequest) ([]quiz.Record, error) {
	purpose := llm.PurposeQuizMCQ
	temperature := g.config.MCQTemperature
	if req.Kind == quiz.KindTrueFalse {
		purpose = llm.PurposeQuizTF
		temperature = g.config.TFTemperature
	}
	ctx = llm.WithPurpose(ctx, purpose)

	n := clampCount(req.Count, g.config.MaxCount)
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, n, g.config)},
		},
		Schema:      schemaFor(req.Kind),
		MaxTokens:   g.config.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, wrapLLMError(err)
	}

	records, err := quiz.DecodeRecords(resp.Content)
	if err != nil {
		return nil, &Error{Message: "the AI provider returned malformed questions", Err: fmt.Errorf("decode questions: %w", err)}
	}
	tagKind(records, req.Kind)

	g.logger.Debug().
		Str("kind", string(req.Kind)).
		Int("requested", n).
		Int("received", len(records)).
		Msg("generated batch")
	return records, nil
}

// tagKind marks records that carry no kind of their own with the kind that
// was requested.
func tagKind(records []quiz.Record, kind quiz.Kind) {
	for _, rec := range records {
		if rec.Get("type", "kind").IsNull() {
			rec["type"] = quiz.String(string(kind))
		}
	}
}
