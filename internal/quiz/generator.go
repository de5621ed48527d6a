package quiz

import "context"

// GenerateRequest asks a generation collaborator for Count new questions.
type GenerateRequest struct {
	Kind    Kind
	Count   int
	Context string

	// Exclude lists question texts the collaborator should avoid repeating.
	Exclude []string

	// Topics are best-effort hints, one question per topic.
	Topics []string
}

// Generator is the external question-generation collaborator. It returns
// raw records; any error is treated as a backend failure.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]Record, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) ([]Record, error)

func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) ([]Record, error) {
	return f(ctx, req)
}
