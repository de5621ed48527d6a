package content

import "github.com/edugen/edugen/internal/llm"

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// SectionsSchema is the first summarization pass: titled sections.
var SectionsSchema = &llm.Schema{
	Name:        "summary-sections",
	Description: "The main sections of a document, each with a short summary",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":   map[string]any{"type": "string"},
						"summary": map[string]any{"type": "string", "description": "3-6 sentences"},
					},
					"required":             []any{"title", "summary"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"sections"},
		"additionalProperties": false,
	},
}

// OverviewSchema is the second summarization pass.
var OverviewSchema = &llm.Schema{
	Name:        "summary-overview",
	Description: "An overview paragraph, key points and quoted figures",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overview":   map[string]any{"type": "string"},
			"key_points": stringList,
			"data_points": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label": map[string]any{"type": "string"},
						"value": map[string]any{"type": "string"},
						"unit":  map[string]any{"type": "string", "description": "Empty when the figure has no unit"},
					},
					"required":             []any{"label", "value", "unit"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"overview", "key_points", "data_points"},
		"additionalProperties": false,
	},
}

// TopicsSchema lists the key concepts of a text.
var TopicsSchema = &llm.Schema{
	Name:        "topics",
	Description: "Key topics and concepts of a text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topics": stringList,
		},
		"required":             []any{"topics"},
		"additionalProperties": false,
	},
}
