package llm

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"google.golang.org/genai"
)

var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

// Finish reasons that mean the material itself was refused.
var geminiRefusals = []genai.FinishReason{
	genai.FinishReasonSafety,
	genai.FinishReasonRecitation,
	genai.FinishReasonBlocklist,
	genai.FinishReasonProhibitedContent,
	genai.FinishReasonSPII,
}

// GeminiProvider implements Provider on the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini provider. cfg.BaseURL points the client
// at a proxy or test server.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: resolveModel(cfg.Model, geminiModels)}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	result, err := p.client.Models.GenerateContent(ctx, p.model, geminiContents(req.Messages), geminiConfig(req))
	if err != nil {
		return nil, mapGeminiError(err)
	}
	if err := geminiOutcome(result); err != nil {
		return nil, err
	}

	content, err := replyContent(req.Schema, result.Text())
	if err != nil {
		return nil, err
	}

	resp := &Response{Content: content, Model: p.model, StopReason: StopEnd}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return resp, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func geminiConfig(req Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = geminiSchema(req.Schema.Definition)
	}
	return config
}

func geminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, len(msgs))
	for i, m := range msgs {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		out[i] = genai.NewContentFromText(m.Content, role)
	}
	return out
}

// geminiOutcome turns a blocked prompt, a refused candidate or a truncated
// candidate into the matching error.
func geminiOutcome(result *genai.GenerateContentResponse) error {
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return &ErrRejected{Reason: ReasonContentFilter, Err: fmt.Errorf("prompt blocked: %s", fb.BlockReason)}
	}
	if len(result.Candidates) == 0 {
		return &ErrInvalidResponse{Err: errors.New("no candidates in Gemini response")}
	}
	switch reason := result.Candidates[0].FinishReason; {
	case reason == genai.FinishReasonMaxTokens:
		return &ErrMaxTokensExceeded{Content: []byte(result.Text())}
	case slices.Contains(geminiRefusals, reason):
		return &ErrRejected{Reason: ReasonContentFilter, Err: fmt.Errorf("candidate finished with %s", reason)}
	}
	return nil
}

// geminiSchema converts a JSON Schema definition to the Gemini subset.
// additionalProperties has no counterpart and is dropped; the reply is
// still checked against the full definition. Properties keep the order of
// "required" so a question is written before its answer.
func geminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	switch t := def["type"].(type) {
	case string:
		schema.Type = geminiType(t)
	case []any:
		for _, v := range t {
			if s, _ := v.(string); s == "null" {
				schema.Nullable = genai.Ptr(true)
			} else if s != "" {
				schema.Type = geminiType(s)
			}
		}
	}
	schema.Description, _ = def["description"].(string)

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if sub, ok := v.(map[string]any); ok {
				schema.Properties[name] = geminiSchema(sub)
			}
		}
	}
	schema.Required = stringList(def["required"])
	if len(schema.Required) > 0 {
		schema.PropertyOrdering = propertyOrder(schema.Required, schema.Properties)
	}
	schema.Enum = stringList(def["enum"])

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = geminiSchema(items)
	}
	if n, ok := intValue(def["minItems"]); ok {
		schema.MinItems = genai.Ptr(n)
	}
	if n, ok := intValue(def["maxItems"]); ok {
		schema.MaxItems = genai.Ptr(n)
	}
	return schema
}

func propertyOrder(required []string, props map[string]*genai.Schema) []string {
	order := slices.Clone(required)
	var rest []string
	for name := range props {
		if !slices.Contains(order, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

func geminiType(t string) genai.Type {
	switch t {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	}
	return genai.TypeString
}

func stringList(v any) []string {
	list, _ := v.([]any)
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// mapGeminiError classifies SDK errors. The SDK returns APIError by value.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return classifyStatus(apiErrPtr.Code, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
