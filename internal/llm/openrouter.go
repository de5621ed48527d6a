package llm

import (
	"cmp"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider routes requests through OpenRouter's OpenAI-compatible
// API. Model IDs are used verbatim ("google/gemini-2.0-flash-exp"), schemas
// are sent without strict mode since many routed models lack it, and every
// request is attributed to the app and the purpose of the call.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cmp.Or(cfg.BaseURL, defaultOpenRouterBaseURL)
	config.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			referer: cfg.Referer,
			title:   cmp.Or(cfg.Title, "edugen"),
		},
	}

	inner, err := newOpenAIProvider(config, cfg.Model, false)
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// attributionTransport sets OpenRouter's HTTP-Referer and X-Title headers.
// The title carries the request purpose, e.g. "edugen/quiz-mcq", so usage
// on the OpenRouter dashboard splits the same way as the local event log.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	title := t.title
	if purpose := PurposeFrom(req.Context()); purpose != unknownPurpose {
		title += "/" + purpose
	}
	req.Header.Set("X-Title", title)
	return t.base.RoundTrip(req)
}
