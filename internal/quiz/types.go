package quiz

import (
	"fmt"
	"strings"
)

// Kind is the question format.
type Kind string

const (
	KindMultipleChoice Kind = "mcq"
	KindTrueFalse      Kind = "tf"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindMultipleChoice, KindTrueFalse}

// ParseKind maps the spellings generation services use for a kind onto a
// Kind. Matching ignores case, spaces, hyphens and underscores.
func ParseKind(s string) (Kind, bool) {
	folded := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '/':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))

	switch folded {
	case "mcq", "mc", "multiplechoice", "choice", "ปรนัย":
		return KindMultipleChoice, true
	case "tf", "truefalse", "boolean", "bool", "ถูกผิด":
		return KindTrueFalse, true
	}
	return "", false
}

// String returns a human-readable kind label.
func (k Kind) String() string {
	switch k {
	case KindMultipleChoice:
		return "multiple-choice"
	case KindTrueFalse:
		return "true-false"
	}
	return string(k)
}

// ChoiceCount is the fixed number of options on a multiple-choice item.
const ChoiceCount = 4

// Position identifies one of the four option slots of a multiple-choice
// item.
type Position int

const (
	PositionFirst Position = iota
	PositionSecond
	PositionThird
	PositionFourth
)

var markers = [ChoiceCount]string{"ก", "ข", "ค", "ง"}

// Marker returns the slot's position marker (ก, ข, ค or ง).
func (p Position) Marker() string {
	if p < 0 || int(p) >= ChoiceCount {
		return ""
	}
	return markers[p]
}

// PositionOf returns the position for a marker.
func PositionOf(marker string) (Position, bool) {
	for i, m := range markers {
		if m == marker {
			return Position(i), true
		}
	}
	return 0, false
}

// Answer is the canonical correct answer: a position marker for
// multiple-choice items, AnswerTrue or AnswerFalse for true-false items.
type Answer string

const (
	AnswerTrue  Answer = "true"
	AnswerFalse Answer = "false"
)

// MarkerAnswer returns the answer pointing at position p.
func MarkerAnswer(p Position) Answer {
	return Answer(p.Marker())
}

// TruthAnswer returns AnswerTrue or AnswerFalse.
func TruthAnswer(v bool) Answer {
	if v {
		return AnswerTrue
	}
	return AnswerFalse
}

// Position returns the slot the answer points at. ok is false for
// true-false answers.
func (a Answer) Position() (Position, bool) {
	return PositionOf(string(a))
}

// Item is a canonical question. Items are values; Shuffle returns copies
// and never mutates its input.
type Item struct {
	Kind        Kind     `json:"kind" yaml:"kind"`
	Text        string   `json:"question" yaml:"question"`
	Choices     []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Answer      Answer   `json:"answer" yaml:"answer"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Topic       string   `json:"topic,omitempty" yaml:"topic,omitempty"`
}

// CorrectIndex returns the index of the correct choice, or -1 for
// true-false items.
func (it Item) CorrectIndex() int {
	if it.Kind != KindMultipleChoice {
		return -1
	}
	p, ok := it.Answer.Position()
	if !ok {
		return -1
	}
	return int(p)
}

// CorrectChoice returns the text of the correct option.
func (it Item) CorrectChoice() string {
	if i := it.CorrectIndex(); i >= 0 && i < len(it.Choices) {
		return it.Choices[i]
	}
	return ""
}

// Truth reports the answer of a true-false item.
func (it Item) Truth() bool {
	return it.Answer == AnswerTrue
}

// AnswerLabel renders the answer for people: "ข. Paris" or "จริง".
func (it Item) AnswerLabel() string {
	switch it.Kind {
	case KindTrueFalse:
		if it.Truth() {
			return "จริง"
		}
		return "เท็จ"
	default:
		return fmt.Sprintf("%s. %s", it.Answer, it.CorrectChoice())
	}
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	if it.Choices != nil {
		it.Choices = append([]string(nil), it.Choices...)
	}
	return it
}

// Texts returns the question texts of items.
func Texts(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

// OfKind returns the items of kind k, preserving order.
func OfKind(items []Item, k Kind) []Item {
	var out []Item
	for _, it := range items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}
