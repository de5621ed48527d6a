package content

// Config holds content service settings.
type Config struct {
	MaxTokens int

	SummaryTemperature float64
	TopicsTemperature  float64
	AnswerTemperature  float64

	// SummaryInputLimit caps the text summarized, in characters.
	SummaryInputLimit int

	// MaxSentences caps how many numbered sentences the section pass sees.
	MaxSentences int

	// ContextLimit caps the text sent for topics and answers, in characters.
	ContextLimit int

	// MaxTopics caps the number of topics returned.
	MaxTopics int
}

// DefaultConfig returns sensible defaults for the content service.
func DefaultConfig() Config {
	return Config{
		MaxTokens:          4096,
		SummaryTemperature: 0.15,
		TopicsTemperature:  0.2,
		AnswerTemperature:  0.15,
		SummaryInputLimit:  45000,
		MaxSentences:       800,
		ContextLimit:       15000,
		MaxTopics:          30,
	}
}
