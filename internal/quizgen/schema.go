package quizgen

import (
	"github.com/edugen/edugen/internal/llm"
	"github.com/edugen/edugen/internal/quiz"
)

func questionList(item map[string]any) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": item,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	}
}

// MCQSchema is the structured output for a batch of multiple-choice questions.
var MCQSchema = &llm.Schema{
	Name:        "quiz-mcq",
	Description: "A batch of four-option multiple-choice questions drawn from the source text",
	Definition: questionList(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{"type": "string", "enum": []any{"mcq"}},
			"question": map[string]any{
				"type":        "string",
				"description": "The question stem",
			},
			"choices": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": `Exactly 4 options labelled "ก) ", "ข) ", "ค) ", "ง) "`,
			},
			"answer": map[string]any{
				"type":        "string",
				"enum":        []any{"ก", "ข", "ค", "ง"},
				"description": "The marker of the single correct option",
			},
			"explain": map[string]any{
				"type":        "string",
				"description": "Why the answer is correct, citing the source text",
			},
			"topic": map[string]any{"type": "string"},
		},
		"required":             []any{"type", "question", "choices", "answer", "explain", "topic"},
		"additionalProperties": false,
	}),
}

// TFSchema is the structured output for a batch of true-false questions.
var TFSchema = &llm.Schema{
	Name:        "quiz-tf",
	Description: "A batch of true-false statements drawn from the source text",
	Definition: questionList(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":     map[string]any{"type": "string", "enum": []any{"tf"}},
			"question": map[string]any{"type": "string", "description": "A statement to judge"},
			"answer":   map[string]any{"type": "string", "enum": []any{"true", "false"}},
			"explain":  map[string]any{"type": "string", "description": "A short reason"},
			"topic":    map[string]any{"type": "string"},
		},
		"required":             []any{"type", "question", "answer", "explain", "topic"},
		"additionalProperties": false,
	}),
}

func schemaFor(k quiz.Kind) *llm.Schema {
	if k == quiz.KindTrueFalse {
		return TFSchema
	}
	return MCQSchema
}
