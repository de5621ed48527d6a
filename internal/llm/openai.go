package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider implements Provider on the OpenAI chat completions API and
// on compatible servers (OpenRouter, Ollama, vLLM).
type OpenAIProvider struct {
	client *openai.Client
	model  string

	// strict asks for strict json_schema decoding. Compatible servers often
	// reject it, so they get a plain json_schema hint and rely on the reply
	// check alone.
	strict bool
}

// NewOpenAIProvider creates an OpenAI provider. Friendly model names are
// resolved to OpenAI model IDs. A BaseURL other than OpenAI's turns strict
// schema decoding off.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return newOpenAIProvider(config, resolveModel(cfg.Model, openaiModels), cfg.BaseURL == "")
}

func newOpenAIProvider(config openai.ClientConfig, model string, strict bool) (*OpenAIProvider, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
		strict: strict,
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Schema: schemaName(req.Schema), Err: errors.New("no choices in chat completion")}
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case openai.FinishReasonLength:
		return nil, &ErrMaxTokensExceeded{Content: []byte(choice.Message.Content)}
	case openai.FinishReasonContentFilter:
		return nil, &ErrRejected{Reason: ReasonContentFilter, Err: errors.New("completion stopped by content filter")}
	}
	if choice.Message.Refusal != "" {
		return nil, &ErrRejected{Reason: ReasonRefusal, Err: errors.New(choice.Message.Refusal)}
	}

	content, err := replyContent(req.Schema, choice.Message.Content)
	if err != nil {
		return nil, err
	}
	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: StopEnd,
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func (p *OpenAIProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chatReq.Messages = append(chatReq.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chatReq.Messages = append(chatReq.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return chatReq, &ErrRejected{Reason: ReasonBadSchema, Err: err}
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      p.strict,
			},
		}
	}
	return chatReq, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
