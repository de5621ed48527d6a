package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugen/edugen/internal/quiz"
)

// RemoteConfig holds connection details for a remote generation service.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RemoteGenerator implements quiz.Generator by calling a generation
// service: POST {base}/quiz/mcq or {base}/quiz/tf.
type RemoteGenerator struct {
	httpClient *http.Client
	config     RemoteConfig
	base       string
	logger     zerolog.Logger
}

var _ quiz.Generator = (*RemoteGenerator)(nil)

// NewRemote creates a RemoteGenerator. A zero timeout means 60 seconds.
func NewRemote(cfg RemoteConfig, logger zerolog.Logger) *RemoteGenerator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RemoteGenerator{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		base:       strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:     logger.With().Str("component", "remote_generator").Logger(),
	}
}

type remoteRequest struct {
	Context string   `json:"context"`
	N       int      `json:"n"`
	Exclude []string `json:"exclude"`
	Topics  []string `json:"topics,omitempty"`
}

type remoteError struct {
	Detail json.RawMessage `json:"detail"`
}

// Generate requests one batch from the service.
func (g *RemoteGenerator) Generate(ctx context.Context, req quiz.GenerateRequest) ([]quiz.Record, error) {
	if g.base == "" {
		return nil, fmt.Errorf("generator endpoint not configured")
	}

	body, err := json.Marshal(remoteRequest{
		Context: req.Context,
		N:       clampCount(req.Count, DefaultConfig().MaxCount),
		Exclude: nonNil(req.Exclude),
		Topics:  req.Topics,
	})
	if err != nil {
		return nil, err
	}

	url := g.base + "/quiz/" + string(req.Kind)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read generator payload: %w", err)
	}

	g.logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("generator call")

	if resp.StatusCode >= 300 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}

	records, err := quiz.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("decode generator payload: %w", err)
	}
	tagKind(records, req.Kind)
	return records, nil
}

// errorDetail extracts {"detail": "..."} from an error body. Structured
// details (validation error lists) are returned as raw JSON.
func errorDetail(body []byte) string {
	var e remoteError
	if err := json.Unmarshal(body, &e); err != nil || len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(e.Detail)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
