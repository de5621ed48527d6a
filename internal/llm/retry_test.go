package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func invalidBatch(reason string) MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{
		Schema:  "quiz-mcq",
		Content: json.RawMessage(`{"questions":[{"type":"mcq","answer":"B"}]}`),
		Err:     errors.New(reason),
	}}
}

func TestRetry_TransientFailures(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "first attempt",
			responses: []MockResponse{{Content: json.RawMessage(validMCQBatch)}},
			wantCalls: 1,
		},
		{
			name: "outage then batch",
			responses: []MockResponse{
				{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
				{Content: json.RawMessage(validMCQBatch)},
			},
			wantCalls: 2,
		},
		{
			name: "rate limit with retry-after",
			responses: []MockResponse{
				{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
				{Content: json.RawMessage(validMCQBatch)},
			},
			wantCalls: 2,
		},
		{
			name: "network error",
			responses: []MockResponse{
				{Err: errors.New("connection reset by peer")},
				{Content: json.RawMessage(validMCQBatch)},
			},
			wantCalls: 2,
		},
		{
			name: "outage throughout",
			responses: []MockResponse{
				{Err: &ErrProviderUnavailable{}},
				{Err: &ErrProviderUnavailable{}},
				{Err: &ErrProviderUnavailable{}},
				{Content: json.RawMessage(validMCQBatch)},
			},
			wantErr:   true,
			wantCalls: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			resp, err := WithRetry(mock, retryConfig()).Generate(context.Background(), quizRequest())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != validMCQBatch {
					t.Errorf("content = %s", resp.Content)
				}
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, mock.CallCount())
			}
		})
	}
}

func TestRetry_PermanentFailuresNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"cut off", &ErrMaxTokensExceeded{Content: json.RawMessage(`{"questions":[`)}},
		{"bad key", &ErrRejected{StatusCode: 401, Err: errors.New("invalid x-api-key")}},
		{"safety filter", &ErrRejected{Reason: ReasonContentFilter, Err: errors.New("SAFETY")}},
		{"cancelled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, MockResponse{Content: json.RawMessage(validMCQBatch)})
			_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), quizRequest())
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if mock.CallCount() != 1 {
				t.Fatalf("expected 1 call (no retry), got %d", mock.CallCount())
			}
		})
	}
}

func TestRetry_SchemaFailureRetriedOnceWithCorrection(t *testing.T) {
	mock := NewMockProvider(
		invalidBatch("/questions/0/answer: value must be one of 'ก', 'ข', 'ค', 'ง'"),
		MockResponse{Content: json.RawMessage(validMCQBatch)},
	)
	req := quizRequest()

	resp, err := WithRetry(mock, retryConfig()).Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != validMCQBatch {
		t.Errorf("content = %s", resp.Content)
	}

	if len(mock.Calls[0].Messages) != 1 {
		t.Errorf("first attempt should carry only the prompt, got %d messages", len(mock.Calls[0].Messages))
	}
	retried := mock.Calls[1].Messages
	if len(retried) != 3 {
		t.Fatalf("expected prompt, rejected reply and correction, got %d messages", len(retried))
	}
	if retried[1].Role != RoleAssistant || !strings.Contains(retried[1].Content, `"answer":"B"`) {
		t.Errorf("rejected reply = %+v", retried[1])
	}
	if retried[2].Role != RoleUser ||
		!strings.Contains(retried[2].Content, "quiz-mcq") ||
		!strings.Contains(retried[2].Content, "/questions/0/answer") {
		t.Errorf("correction = %q", retried[2].Content)
	}
	if len(req.Messages) != 1 {
		t.Error("caller's request was modified")
	}
}

func TestRetry_SchemaFailureNotRetriedTwice(t *testing.T) {
	mock := NewMockProvider(
		invalidBatch("missing explain"),
		invalidBatch("missing explain"),
		MockResponse{Content: json.RawMessage(validMCQBatch)},
	)

	_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), quizRequest())
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_PlainRequestNotCorrected(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`"x"`), Err: errors.New("no choices")}},
		MockJSON("ในคลอโรพลาสต์"),
	)

	_, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Where does photosynthesis happen?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls[1].Messages) != 1 {
		t.Errorf("plain requests are retried unchanged, got %d messages", len(mock.Calls[1].Messages))
	}
}

func TestRetry_StopsBeforeDeadline(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Minute, Err: errors.New("429")}},
		MockResponse{Content: json.RawMessage(validMCQBatch)},
	)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	_, err := WithRetry(mock, retryConfig()).Generate(ctx, quizRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected the rate limit error, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("retry waited for a deadline it could not beat")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(validMCQBatch)},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, retryConfig()).Generate(ctx, quizRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_Backoff(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}

	for attempt, base := range []time.Duration{100, 200, 300, 300} {
		base *= time.Millisecond
		got := r.backoff(attempt, &ErrProviderUnavailable{})
		if got < base*8/10 || got > base*12/10 {
			t.Errorf("backoff(%d) = %s, want %s ±20%%", attempt, got, base)
		}
	}
	if got := r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second}); got != 7*time.Second {
		t.Errorf("retry-after ignored: %s", got)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	if got := WithRetry(NewMockProvider(), retryConfig()).ModelID(); got != "mock" {
		t.Fatalf("expected 'mock', got %q", got)
	}
}
