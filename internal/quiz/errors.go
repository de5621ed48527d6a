package quiz

import "errors"

// ErrNoNewItems is returned when every attempt of a collection cycle
// yielded nothing but duplicates of questions already in the quiz.
var ErrNoNewItems = errors.New("no new items of this kind; all near-duplicates of existing ones")

// DefaultBackendMessage is used when a failed generation call carries no
// message of its own.
const DefaultBackendMessage = "question generation failed"

// BackendError reports a failed call to the generation collaborator.
// Message is suitable for end users; Err holds the cause.
type BackendError struct {
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return "backend error: " + e.Message
}

func (e *BackendError) Unwrap() error { return e.Err }

// userMessager is implemented by collaborator errors that carry a message
// meant for end users.
type userMessager interface {
	UserMessage() string
}

// newBackendError wraps a collaborator failure, preferring the
// collaborator's own message.
func newBackendError(err error) *BackendError {
	msg := ""
	var um userMessager
	if errors.As(err, &um) {
		msg = um.UserMessage()
	}
	if msg == "" {
		msg = DefaultBackendMessage
	}
	return &BackendError{Message: msg, Err: err}
}
