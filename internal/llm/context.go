package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// unknownPurpose is reported for requests made without WithPurpose.
const unknownPurpose = "unknown"

// Purpose labels recorded with every request.
const (
	PurposeQuizMCQ        = "quiz-mcq"
	PurposeQuizTF         = "quiz-tf"
	PurposeSummarize      = "summarize"
	PurposeSummarizeMerge = "summarize-merge"
	PurposeTopics         = "topics"
	PurposeAnswer         = "qa"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return unknownPurpose
}
