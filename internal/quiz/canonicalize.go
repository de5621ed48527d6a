package quiz

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Field aliases accepted on raw records.
var (
	kindFields        = []string{"kind", "type"}
	textFields        = []string{"questionText", "question_text", "question", "text"}
	choiceFields      = []string{"choices", "options"}
	answerFields      = []string{"correctAnswer", "correct_answer", "answer"}
	explanationFields = []string{"explanation", "explain"}
	topicFields       = []string{"topic"}
)

// RejectError explains why a raw record could not be canonicalized.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string {
	return "quiz: record rejected: " + e.Reason
}

// placeholderChoice fills a missing option slot (1-based).
func placeholderChoice(slot int) string {
	return fmt.Sprintf("ตัวเลือก %d", slot)
}

// Option labels. A label closed by a bracket, such as "ก)", "(B)" or "[3]",
// or a Thai marker followed by "." or ":", is always an option label.
// "c." or "4:" is only one when every choice carries it, since a Latin
// initial ("D. Trump") can start an ordinary answer. A "." or ":" label
// must be followed by whitespace so that "1.5 m" keeps its leading digit.
var (
	closedLabel = regexp.MustCompile(`^\s*[(\[]?\s*[กขคงA-Da-d1-4]\s*[)\]]\s*`)
	thaiLabel   = regexp.MustCompile(`^\s*[(\[]?\s*[กขคง]\s*[.:](?:\s+|$)`)
	dotLabel    = regexp.MustCompile(`^\s*[(\[]?\s*[A-Da-d1-4]\s*[.:](?:\s+|$)`)
)

// stripLabel removes one leading option label of any style from s.
func stripLabel(s string) string {
	return stripChoiceLabel(s, true)
}

// stripChoiceLabel removes one leading option label from s. Latin and
// digit labels ending in "." or ":" are removed only when dotted is set.
func stripChoiceLabel(s string, dotted bool) string {
	for _, re := range []*regexp.Regexp{closedLabel, thaiLabel} {
		if re.MatchString(s) {
			return re.ReplaceAllString(s, "")
		}
	}
	if dotted {
		return dotLabel.ReplaceAllString(s, "")
	}
	return s
}

// dottedLabels reports whether at least two choices were supplied and every
// non-blank one starts with a Latin or digit "." / ":" label.
func dottedLabels(raw []Value) bool {
	n := 0
	for _, v := range raw {
		t := strings.TrimSpace(v.Text())
		if t == "" {
			continue
		}
		if !dotLabel.MatchString(t) {
			return false
		}
		n++
	}
	return n >= 2
}

// latinPosition maps a bare "A".."D" or "a".."d" answer onto a slot.
func latinPosition(s string) (Position, bool) {
	if len(s) != 1 {
		return 0, false
	}
	switch c := s[0]; {
	case c >= 'A' && c <= 'D':
		return Position(c - 'A'), true
	case c >= 'a' && c <= 'd':
		return Position(c - 'a'), true
	}
	return 0, false
}

// Canonicalize validates a raw record and converts it into an Item.
// It returns a *RejectError when the kind or question text is missing.
// Multiple-choice items always come back with four choices and an answer
// marker; true-false items with AnswerTrue or AnswerFalse.
func Canonicalize(rec Record) (Item, error) {
	kindText := strings.TrimSpace(rec.Get(kindFields...).Text())
	if kindText == "" {
		return Item{}, &RejectError{Reason: "missing kind"}
	}
	kind, ok := ParseKind(kindText)
	if !ok {
		return Item{}, &RejectError{Reason: fmt.Sprintf("unknown kind %q", kindText)}
	}

	text := strings.TrimSpace(rec.Get(textFields...).Text())
	if text == "" {
		return Item{}, &RejectError{Reason: "missing question text"}
	}

	item := Item{
		Kind:        kind,
		Text:        text,
		Explanation: strings.TrimSpace(rec.Get(explanationFields...).Text()),
		Topic:       strings.TrimSpace(rec.Get(topicFields...).Text()),
	}

	answer := rec.Get(answerFields...).Text()
	switch kind {
	case KindMultipleChoice:
		item.Choices = canonicalChoices(rec.Get(choiceFields...).Items())
		item.Answer = MarkerAnswer(resolvePosition(answer, item.Choices))
	case KindTrueFalse:
		item.Answer = TruthAnswer(ParseTruth(answer))
	}
	return item, nil
}

// CanonicalizeAll canonicalizes records, dropping the ones that are
// rejected. The second result counts the drops.
func CanonicalizeAll(records []Record) ([]Item, int) {
	items := make([]Item, 0, len(records))
	rejected := 0
	for _, rec := range records {
		it, err := Canonicalize(rec)
		if err != nil {
			rejected++
			continue
		}
		items = append(items, it)
	}
	return items, rejected
}

// canonicalChoices strips labels, drops blanks, keeps at most four and pads
// missing slots with placeholders.
func canonicalChoices(raw []Value) []string {
	choices := make([]string, 0, ChoiceCount)
	dotted := dottedLabels(raw)
	for _, v := range raw {
		c := strings.TrimSpace(stripChoiceLabel(v.Text(), dotted))
		if c == "" {
			continue
		}
		choices = append(choices, c)
		if len(choices) == ChoiceCount {
			break
		}
	}
	for len(choices) < ChoiceCount {
		choices = append(choices, placeholderChoice(len(choices)+1))
	}
	return choices
}

// resolvePosition maps a raw answer onto a slot. Markers (Thai, or the
// Latin letters A-D) win, then numeric
// indices, then a whitespace-insensitive match against the choice texts.
// Numbers are tried before text so that an answer of "2" means the second
// slot even when some choice reads "2". Anything else falls back to the
// first slot.
func resolvePosition(raw string, choices []string) Position {
	s := strings.TrimSpace(raw)
	bare := strings.Trim(s, "()[].:) ")

	if p, ok := PositionOf(bare); ok {
		return p
	}
	if p, ok := latinPosition(bare); ok {
		return p
	}

	if n, err := strconv.Atoi(bare); err == nil {
		switch {
		case n >= 1 && n <= ChoiceCount:
			return Position(n - 1)
		case n == 0:
			return PositionFirst
		}
	}

	if s != "" {
		candidates := []string{squash(s), squash(stripLabel(s))}
		for i, c := range choices {
			sc := squash(c)
			for _, cand := range candidates {
				if cand != "" && cand == sc {
					return Position(i)
				}
			}
		}
	}

	return PositionFirst
}

// squash removes all whitespace.
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
