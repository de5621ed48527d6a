package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for one batch of questions.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0), per kind.
	MCQTemperature float64
	TFTemperature  float64

	// ContextLimit caps the source text sent with each request, in
	// characters.
	ContextLimit int

	// ExcludeLimit is the maximum number of prior question texts listed
	// in the prompt as ones to avoid. The most recent are kept.
	ExcludeLimit int

	// MaxCount caps how many questions one request asks for.
	MaxCount int
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:      4096,
		MCQTemperature: 0.3,
		TFTemperature:  0.25,
		ContextLimit:   15000,
		ExcludeLimit:   30,
		MaxCount:       10,
	}
}

// clampCount bounds n to 1..limit.
func clampCount(n, limit int) int {
	if limit <= 0 {
		limit = DefaultConfig().MaxCount
	}
	return min(max(n, 1), limit)
}
