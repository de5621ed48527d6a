package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugen/edugen/internal/store"
)

// LoggingProvider is a decorator that logs every LLM request and, when an
// event repository is set, records it as an event.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	logger    zerolog.Logger
}

// WithLogging wraps a Provider with request logging. repo may be nil.
func WithLogging(p Provider, provider string, repo store.EventRepo, logger zerolog.Logger) Provider {
	return &LoggingProvider{
		inner:     p,
		provider:  provider,
		eventRepo: repo,
		logger:    logger.With().Str("component", "llm").Logger(),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	ev := l.logger.Debug()
	if err != nil {
		ev = l.logger.Warn().Err(err)
	}
	ev.Str("purpose", purpose).
		Str("model", data.Model).
		Int("input_tokens", data.InputTokens).
		Int("output_tokens", data.OutputTokens).
		Int64("latency_ms", data.LatencyMs).
		Msg("llm request")

	// A failed event write never fails the request.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			l.logger.Warn().Err(logErr).Msg("failed to record LLM request event")
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}
