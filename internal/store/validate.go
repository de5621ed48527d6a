package store

import (
	"fmt"
	"strings"

	"github.com/edugen/edugen/internal/quiz"
)

// ValidationError reports a question or quiz the bank refuses to store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NormalizeItem validates it and returns the form the bank stores.
// True-false answers written as words (จริง, ผิด, yes...) become
// "true"/"false"; multiple-choice items need at least two choices and an
// answer marker within range.
func NormalizeItem(it quiz.Item) (quiz.Item, error) {
	it = it.Clone()
	it.Text = strings.TrimSpace(it.Text)
	if it.Text == "" {
		return it, &ValidationError{Field: "question", Reason: "must not be empty"}
	}

	switch it.Kind {
	case quiz.KindMultipleChoice:
		var choices []string
		for _, c := range it.Choices {
			if c = strings.TrimSpace(c); c != "" {
				choices = append(choices, c)
			}
		}
		if len(choices) < 2 {
			return it, &ValidationError{Field: "choices", Reason: "need at least two"}
		}
		if len(choices) > quiz.ChoiceCount {
			return it, &ValidationError{Field: "choices", Reason: fmt.Sprintf("at most %d allowed", quiz.ChoiceCount)}
		}
		it.Choices = choices
		it.Answer = quiz.Answer(strings.TrimSpace(string(it.Answer)))
		p, ok := it.Answer.Position()
		if !ok || int(p) >= len(choices) {
			return it, &ValidationError{Field: "answer", Reason: fmt.Sprintf("%q is not one of the choice markers", it.Answer)}
		}

	case quiz.KindTrueFalse:
		raw := string(it.Answer)
		if !quiz.IsTruthWord(raw) {
			return it, &ValidationError{Field: "answer", Reason: fmt.Sprintf("%q is not true or false", raw)}
		}
		it.Answer = quiz.TruthAnswer(quiz.ParseTruth(raw))
		it.Choices = nil

	default:
		return it, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", it.Kind)}
	}

	it.Explanation = strings.TrimSpace(it.Explanation)
	it.Topic = strings.TrimSpace(it.Topic)
	return it, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return title, nil
}
