package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that is not JSON or
// does not conform to the requested schema. Schema names the schema the
// content failed, when there was one.
type ErrInvalidResponse struct {
	Schema  string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	if e.Schema != "" {
		return fmt.Sprintf("invalid LLM response for %s: %v", e.Schema, e.Err)
	}
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrRejected indicates the request cannot succeed as sent: the provider
// refused it over HTTP (bad key, unknown model, no credits), a safety
// filter blocked the material, or the request schema does not compile.
// Retrying does not help. Reason is set when there is no HTTP status.
type ErrRejected struct {
	StatusCode int
	Reason     string
	Err        error
}

// Rejection reasons without an HTTP status.
const (
	ReasonContentFilter = "content filter"
	ReasonRefusal       = "refusal"
	ReasonBadSchema     = "bad schema"
)

func (e *ErrRejected) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("LLM request rejected (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("LLM request rejected (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// classifyStatus maps an HTTP status from a provider SDK onto the typed
// errors the retry decorator understands.
func classifyStatus(code int, err error) error {
	switch {
	case code == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case code == http.StatusRequestTimeout || code >= 500:
		return &ErrProviderUnavailable{Err: err}
	case code >= 400:
		return &ErrRejected{StatusCode: code, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// UserMessage describes a provider failure in terms fit for end users.
// It returns "" when err carries none of the provider error types.
func UserMessage(err error) string {
	var (
		rl       *ErrRateLimit
		unavail  *ErrProviderUnavailable
		invalid  *ErrInvalidResponse
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRejected
	)
	switch {
	case errors.As(err, &rl):
		return "the AI provider is rate limiting requests; try again shortly"
	case errors.As(err, &rejected):
		return rejectedMessage(rejected)
	case errors.As(err, &unavail):
		return "the AI provider is unavailable"
	case errors.As(err, &invalid):
		return invalidMessage(invalid.Schema)
	case errors.As(err, &maxTok):
		return "the AI response was cut off"
	}
	return ""
}

func rejectedMessage(e *ErrRejected) string {
	switch {
	case e.StatusCode == http.StatusPaymentRequired:
		return "the AI provider account has run out of credits"
	case e.Reason == ReasonContentFilter || e.Reason == ReasonRefusal:
		return "the AI provider declined to work with this material"
	case e.Reason == ReasonBadSchema:
		return "the request for structured output is misconfigured"
	}
	return "the AI provider rejected the request; check the API key and model"
}

func invalidMessage(schema string) string {
	switch {
	case strings.HasPrefix(schema, "quiz-"):
		return "the AI provider returned questions in an unexpected format"
	case strings.HasPrefix(schema, "summary-"):
		return "the AI provider returned a summary in an unexpected format"
	case schema == "topics":
		return "the AI provider returned topics in an unexpected format"
	}
	return "the AI provider returned a malformed response"
}
