package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one reply for a single-turn prompt. Quiz generation
// and the content services both go through it.
type Provider interface {
	// Generate sends req and returns the reply. When req.Schema is set the
	// reply content is a JSON value that has already passed the schema;
	// otherwise it is the reply text encoded as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request is one prompt. The purpose of the call (quiz-mcq, summarize...)
// travels in the context, see WithPurpose.
type Request struct {
	System string

	// Messages holds the user turn. The retry decorator appends a
	// correction turn when a reply fails its schema.
	Messages []Message

	// Schema, when set, asks for structured output and is checked against
	// the reply.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is a single turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output, such as the
// quiz-mcq batch or the topics list.
type Schema struct {
	// Name doubles as the OpenAI schema name and the compile cache key,
	// so it must be unique per definition.
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a validated reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Decode unmarshals the reply content into v. A failure is reported as an
// ErrInvalidResponse so callers can treat it like a schema failure.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

// Text returns the reply of an unstructured request. Content that is not
// a JSON string is returned verbatim.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err != nil {
		return string(r.Content)
	}
	return s
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are taken to be model IDs already.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
