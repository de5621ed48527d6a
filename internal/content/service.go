// Package content provides the study-material services that sit beside
// quiz generation: summaries, topic extraction and grounded answers.
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edugen/edugen/internal/llm"
	"github.com/edugen/edugen/internal/textsim"
)

// Service runs content requests against an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   zerolog.Logger
}

// NewService creates a content service.
func NewService(provider llm.Provider, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With().Str("component", "content").Logger(),
	}
}

type sectionsOutput struct {
	Sections []Section `json:"sections"`
}

type overviewOutput struct {
	Overview   string      `json:"overview"`
	KeyPoints  []string    `json:"key_points"`
	DataPoints []DataPoint `json:"data_points"`
}

// Summarize builds a two-pass summary of text: first the sections, then an
// overview with key points and data points drawn from the same sentences.
func (s *Service) Summarize(ctx context.Context, text string) (*Summary, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	sents := sentences(cleanText(textsim.Truncate(text, s.cfg.SummaryInputLimit)))
	if len(sents) == 0 {
		return nil, ErrTooShort
	}
	numbered := numberSentences(sents, s.cfg.MaxSentences)

	var secOut sectionsOutput
	err := s.generateJSON(llm.WithPurpose(ctx, llm.PurposeSummarize), llm.Request{
		System:      sectionsSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildSectionsMessage(numbered)}},
		Schema:      SectionsSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.SummaryTemperature,
	}, &secOut)
	if err != nil {
		return nil, fmt.Errorf("summarize sections: %w", err)
	}
	sections := cleanSections(secOut.Sections)

	var ovOut overviewOutput
	err = s.generateJSON(llm.WithPurpose(ctx, llm.PurposeSummarizeMerge), llm.Request{
		System:      overviewSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildOverviewMessage(numbered, sections)}},
		Schema:      OverviewSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.SummaryTemperature,
	}, &ovOut)
	if err != nil {
		return nil, fmt.Errorf("summarize overview: %w", err)
	}

	s.logger.Debug().
		Int("sentences", len(sents)).
		Int("sections", len(sections)).
		Msg("summarized")

	return &Summary{
		Overview:   strings.TrimSpace(ovOut.Overview),
		KeyPoints:  trimAll(ovOut.KeyPoints),
		Sections:   sections,
		DataPoints: cleanDataPoints(ovOut.DataPoints),
	}, nil
}

// Topics extracts up to MaxTopics key topics from text.
func (s *Service) Topics(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	var out struct {
		Topics []string `json:"topics"`
	}
	err := s.generateJSON(llm.WithPurpose(ctx, llm.PurposeTopics), llm.Request{
		System:      buildTopicsSystem(s.cfg.MaxTopics),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: textsim.Truncate(text, s.cfg.ContextLimit)}},
		Schema:      TopicsSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.TopicsTemperature,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("extract topics: %w", err)
	}

	topics := trimAll(out.Topics)
	if s.cfg.MaxTopics > 0 && len(topics) > s.cfg.MaxTopics {
		topics = topics[:s.cfg.MaxTopics]
	}
	return topics, nil
}

// Answer answers question from text alone. When the text does not hold the
// answer the reply is NotFoundAnswer.
func (s *Service) Answer(ctx context.Context, text, question string) (string, error) {
	text = strings.TrimSpace(text)
	question = strings.TrimSpace(question)
	if text == "" || question == "" {
		return "", ErrEmptyInput
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeAnswer), llm.Request{
		System: answerSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildAnswerMessage(textsim.Truncate(text, s.cfg.ContextLimit), question)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.AnswerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return NotFoundAnswer, nil
	}
	return answer, nil
}

func (s *Service) generateJSON(ctx context.Context, req llm.Request, out any) error {
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func cleanSections(in []Section) []Section {
	out := make([]Section, 0, len(in))
	for _, sec := range in {
		sec.Title = strings.TrimSpace(sec.Title)
		sec.Summary = strings.TrimSpace(sec.Summary)
		if sec.Title != "" && sec.Summary != "" {
			out = append(out, sec)
		}
	}
	return out
}

func cleanDataPoints(in []DataPoint) []DataPoint {
	out := make([]DataPoint, 0, len(in))
	for _, dp := range in {
		dp.Label = strings.TrimSpace(dp.Label)
		dp.Value = strings.TrimSpace(dp.Value)
		dp.Unit = strings.TrimSpace(dp.Unit)
		if dp.Label != "" && dp.Value != "" {
			out = append(out, dp)
		}
	}
	return out
}
