package quizgen

import (
	"errors"
	"fmt"

	"github.com/edugen/edugen/internal/llm"
)

// Error wraps a failed LLM generation call with a message fit for end
// users.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("quiz generation: %s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the end-user message.
func (e *Error) UserMessage() string { return e.Message }

func wrapLLMError(err error) *Error {
	var maxTok *llm.ErrMaxTokensExceeded
	msg := llm.UserMessage(err)
	switch {
	case errors.As(err, &maxTok):
		msg = "the AI response was cut off; ask for fewer questions"
	case msg == "":
		msg = "question generation failed"
	}
	return &Error{Message: msg, Err: err}
}

// ServiceError is a non-2xx reply from a remote generation service.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("generation service returned status %d", e.StatusCode)
}

// UserMessage returns the service's own detail message, if it sent one.
func (e *ServiceError) UserMessage() string { return e.Detail }
