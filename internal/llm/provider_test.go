package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_QueuesInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(validMCQBatch), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockJSON(map[string]any{"topics": []string{"cells"}}),
	)

	first, err := mock.Generate(context.Background(), quizRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != validMCQBatch || first.Usage.InputTokens != 10 {
		t.Fatalf("first = %s / %+v", first.Content, first.Usage)
	}
	if first.StopReason != StopEnd || first.Model != "mock" {
		t.Errorf("stop/model = %q / %q", first.StopReason, first.Model)
	}

	second, err := mock.Generate(context.Background(), topicsRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"topics":["cells"]}` {
		t.Fatalf("second = %s", second.Content)
	}

	if _, err := mock.Generate(context.Background(), topicsRequest()); err == nil {
		t.Fatal("expected error from empty queue")
	} else {
		var unavail *ErrProviderUnavailable
		if !errors.As(err, &unavail) {
			t.Fatalf("expected ErrProviderUnavailable, got %T", err)
		}
	}
}

func TestMockProvider_RoutesByPurpose(t *testing.T) {
	mock := NewMockProvider(MockJSON("shared"))
	mock.On(PurposeQuizTF, MockJSON(map[string]any{"questions": []any{}}))
	mock.On(PurposeAnswer, MockJSON("ในคลอโรพลาสต์"))

	answer, err := mock.Generate(WithPurpose(context.Background(), PurposeAnswer), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Text() != "ในคลอโรพลาสต์" {
		t.Errorf("answer = %q", answer.Text())
	}

	batch, err := mock.Generate(WithPurpose(context.Background(), PurposeQuizTF), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(batch.Content) != `{"questions":[]}` {
		t.Errorf("batch = %s", batch.Content)
	}

	// The purpose queue is drained, so the shared queue answers.
	fallback, err := mock.Generate(WithPurpose(context.Background(), PurposeQuizTF), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallback.Text() != "shared" {
		t.Errorf("fallback = %s", fallback.Content)
	}

	want := []string{PurposeAnswer, PurposeQuizTF, PurposeQuizTF}
	if len(mock.Purposes) != len(want) {
		t.Fatalf("purposes = %v", mock.Purposes)
	}
	for i := range want {
		if mock.Purposes[i] != want[i] {
			t.Errorf("purposes[%d] = %q, want %q", i, mock.Purposes[i], want[i])
		}
	}
}

func TestMockProvider_CheckSchema(t *testing.T) {
	mock := NewMockProvider(
		MockJSON(map[string]any{"questions": []map[string]any{{"type": "mcq", "question": "พืชสร้างอาหารที่ส่วนใด"}}}),
		MockResponse{Content: json.RawMessage(validMCQBatch)},
	)
	mock.CheckSchema = true

	_, err := mock.Generate(context.Background(), quizRequest())
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) || invalid.Schema != "quiz-mcq" {
		t.Fatalf("expected quiz-mcq ErrInvalidResponse, got %T (%v)", err, err)
	}
	if _, err := mock.Generate(context.Background(), quizRequest()); err != nil {
		t.Fatalf("valid batch rejected: %v", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})

	_, err := mock.Generate(context.Background(), quizRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].Schema.Name != "quiz-mcq" || mock.Purposes[0] != unknownPurpose {
		t.Errorf("call = %+v, purpose %q", mock.Calls[0], mock.Purposes[0])
	}
	if mock.ModelID() != "mock" {
		t.Errorf("model = %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeSummarizeMerge)
	if p := PurposeFrom(ctx); p != PurposeSummarizeMerge {
		t.Fatalf("expected %q, got %q", PurposeSummarizeMerge, p)
	}
}
