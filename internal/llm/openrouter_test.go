package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenRouterProvider_AttributesPurpose(t *testing.T) {
	cs, baseURL := newChatServer(t, http.StatusOK, chatCompletion("```json\n"+validMCQBatch+"\n```", "stop"))
	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "meta-llama/llama-3.3-70b-instruct",
		BaseURL: baseURL,
		Referer: "https://quiz.example.ac.th",
		Title:   "edugen",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := WithPurpose(context.Background(), PurposeQuizMCQ)
	resp, err := p.Generate(ctx, quizRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != validMCQBatch {
		t.Errorf("fenced reply not unwrapped: %s", resp.Content)
	}

	body, headers := cs.last()
	if got := headers.Get("X-Title"); got != "edugen/quiz-mcq" {
		t.Errorf("X-Title = %q", got)
	}
	if got := headers.Get("HTTP-Referer"); got != "https://quiz.example.ac.th" {
		t.Errorf("HTTP-Referer = %q", got)
	}
	if got := headers.Get("Authorization"); got != "Bearer sk-or-test" {
		t.Errorf("Authorization = %q", got)
	}
	if body["model"] != "meta-llama/llama-3.3-70b-instruct" {
		t.Errorf("model = %v", body["model"])
	}
	format, _ := body["response_format"].(map[string]any)
	schema, _ := format["json_schema"].(map[string]any)
	if schema["strict"] != false {
		t.Errorf("routed models get non-strict schemas, got %v", schema["strict"])
	}
}

func TestOpenRouterProvider_UnlabelledRequest(t *testing.T) {
	cs, baseURL := newChatServer(t, http.StatusOK, chatCompletion("ในคลอโรพลาสต์", "stop"))
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.0-flash-exp", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Where does photosynthesis happen?"}},
		MaxTokens: 128,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "ในคลอโรพลาสต์" {
		t.Errorf("Text() = %q", resp.Text())
	}
	_, headers := cs.last()
	if got := headers.Get("X-Title"); got != "edugen" {
		t.Errorf("X-Title = %q", got)
	}
	if got := headers.Get("HTTP-Referer"); got != "" {
		t.Errorf("HTTP-Referer = %q", got)
	}
}

func TestOpenRouterProvider_SlowRouteTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.0-flash-exp",
		BaseURL: server.URL + "/v1",
		Timeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	_, err = p.Generate(WithPurpose(context.Background(), PurposeSummarize), topicsRequest())
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not applied, took %s", elapsed)
	}
	if classifyRetry(err) != retryTransient {
		t.Error("a timed-out exchange should be retried")
	}
}

func TestOpenRouterProvider_OutOfCredits(t *testing.T) {
	_, baseURL := newChatServer(t, http.StatusPaymentRequired, map[string]any{
		"error": map[string]any{"code": 402, "message": "Insufficient credits"},
	})
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "openai/gpt-4o-mini", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Generate(WithPurpose(context.Background(), PurposeTopics), topicsRequest())
	var rejected *ErrRejected
	if !errors.As(err, &rejected) || rejected.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected 402 rejection, got %T (%v)", err, err)
	}
	if got := UserMessage(err); got != "the AI provider account has run out of credits" {
		t.Errorf("user message = %q", got)
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"}); err == nil {
		t.Error("expected error for empty API key")
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test"}); err == nil {
		t.Error("expected error for empty model")
	}

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" {
		t.Errorf("model = %q, routed IDs are used verbatim", p.ModelID())
	}
}
