package quiz

import (
	"errors"
	"reflect"
	"testing"
)

func mcRecord(text string, choices []string, answer Value) Record {
	return Record{
		"type":     String("mcq"),
		"question": String(text),
		"choices":  Strings(choices...),
		"answer":   answer,
	}
}

func TestCanonicalize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"missing kind", Record{"question": String("Q?")}},
		{"blank kind", Record{"type": String("  "), "question": String("Q?")}},
		{"unknown kind", Record{"type": String("essay"), "question": String("Q?")}},
		{"missing text", Record{"type": String("tf")}},
		{"blank text", Record{"type": String("tf"), "question": String(" \n ")}},
		{"list as text", Record{"type": String("tf"), "question": Strings("a", "b")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Canonicalize(tt.rec)
			var rej *RejectError
			if !errors.As(err, &rej) {
				t.Fatalf("expected *RejectError, got %v", err)
			}
		})
	}
}

func TestCanonicalize_FieldAliases(t *testing.T) {
	rec := Record{
		"kind":          String("multiple-choice"),
		"questionText":  String("  Which city is in Italy?  "),
		"options":       Strings("Paris", "Rome", "Berlin", "Madrid"),
		"correctAnswer": String("ข"),
		"explanation":   String(" Rome is the capital of Italy. "),
		"topic":         String("geography"),
	}
	it, err := Canonicalize(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Item{
		Kind:        KindMultipleChoice,
		Text:        "Which city is in Italy?",
		Choices:     []string{"Paris", "Rome", "Berlin", "Madrid"},
		Answer:      "ข",
		Explanation: "Rome is the capital of Italy.",
		Topic:       "geography",
	}
	if !reflect.DeepEqual(it, want) {
		t.Fatalf("got %+v, want %+v", it, want)
	}
}

func TestCanonicalize_PadsChoices(t *testing.T) {
	it, err := Canonicalize(mcRecord("Pick one", []string{"ก) yes", "", "ข) no"}, String("ก")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"yes", "no", "ตัวเลือก 3", "ตัวเลือก 4"}
	if !reflect.DeepEqual(it.Choices, want) {
		t.Fatalf("choices = %q, want %q", it.Choices, want)
	}
}

func TestCanonicalize_AlwaysFourChoices(t *testing.T) {
	for n := 0; n <= 6; n++ {
		var choices []string
		for i := 0; i < n; i++ {
			choices = append(choices, string(rune('p'+i)))
		}
		it, err := Canonicalize(mcRecord("Q", choices, String("1")))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(it.Choices) != ChoiceCount {
			t.Fatalf("n=%d: got %d choices", n, len(it.Choices))
		}
		seen := map[string]bool{}
		for _, c := range it.Choices {
			if seen[c] {
				t.Fatalf("n=%d: duplicate choice %q in %q", n, c, it.Choices)
			}
			seen[c] = true
		}
	}
}

func TestCanonicalize_NoChoicesField(t *testing.T) {
	it, err := Canonicalize(Record{"type": String("mcq"), "question": String("Q")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(it.Choices) != 4 || it.Answer != "ก" {
		t.Fatalf("got choices %q answer %q", it.Choices, it.Answer)
	}
}

func TestStripLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ก) Paris", "Paris"},
		{"ข.  London", "London"},
		{"(ค) Rome", "Rome"},
		{"[ง] Berlin", "Berlin"},
		{"A) apple", "apple"},
		{"b. banana", "banana"},
		{"3: three", "three"},
		{"ค)Rome", "Rome"},
		{"1.5 metres", "1.5 metres"},
		{"Apple", "Apple"},
		{"E) elder", "E) elder"},
		{"ก.", ""},
	}
	for _, tt := range tests {
		if got := stripLabel(tt.in); got != tt.want {
			t.Errorf("stripLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalize_AnswerResolution(t *testing.T) {
	choices := []string{"Paris", "Rome", "New York", "Berlin"}
	tests := []struct {
		name   string
		answer Value
		want   Answer
	}{
		{"marker", String("ค"), "ค"},
		{"marker with delimiter", String("ข)"), "ข"},
		{"one-based", String("2"), "ข"},
		{"one-based fourth", String("4"), "ง"},
		{"zero-based zero", String("0"), "ก"},
		{"json number", Number("3"), "ค"},
		{"text match", String("Berlin"), "ง"},
		{"text ignoring whitespace", String(" New  York "), "ค"},
		{"labelled text", String("ข) Rome"), "ข"},
		{"latin letter", String("B"), "ข"},
		{"lower-case latin letter", String("d"), "ง"},
		{"bracketed latin letter", String("(c)"), "ค"},
		{"latin letter with delimiter", String("A."), "ก"},
		{"out of range number", String("7"), "ก"},
		{"unknown text", String("Madrid"), "ก"},
		{"missing", Value{}, "ก"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Canonicalize(mcRecord("Which one?", choices, tt.answer))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if it.Answer != tt.want {
				t.Fatalf("answer = %q, want %q", it.Answer, tt.want)
			}
		})
	}
}

func TestCanonicalize_LatinLabelledChoices(t *testing.T) {
	it, err := Canonicalize(mcRecord("Pick y", []string{"A) x", "B) y", "C) z", "D) w"}, String("B")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"x", "y", "z", "w"}; !reflect.DeepEqual(it.Choices, want) {
		t.Fatalf("choices = %q, want %q", it.Choices, want)
	}
	if it.Answer != "ข" || it.CorrectChoice() != "y" {
		t.Fatalf("answer = %q (%q), want ข (y)", it.Answer, it.CorrectChoice())
	}
}

func TestCanonicalize_DottedLabels(t *testing.T) {
	tests := []struct {
		name    string
		choices []string
		want    []string
	}{
		{
			name:    "every choice labelled",
			choices: []string{"A. Lincoln", "B. Grant", "C. Hayes", "D. Garfield"},
			want:    []string{"Lincoln", "Grant", "Hayes", "Garfield"},
		},
		{
			name:    "numbered",
			choices: []string{"1: one", "2: two", "3: three", "4: four"},
			want:    []string{"one", "two", "three", "four"},
		},
		{
			name:    "initial in one choice",
			choices: []string{"Biden", "D. Trump", "Obama", "Bush"},
			want:    []string{"Biden", "D. Trump", "Obama", "Bush"},
		},
		{
			name:    "thai markers always stripped",
			choices: []string{"ก. หนึ่ง", "Two", "ค) สาม", "Four"},
			want:    []string{"หนึ่ง", "Two", "สาม", "Four"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := Canonicalize(mcRecord("Q", tt.choices, String("1")))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(it.Choices, tt.want) {
				t.Errorf("choices = %q, want %q", it.Choices, tt.want)
			}
		})
	}
}

func TestCanonicalize_NumericBeforeText(t *testing.T) {
	// "2" is the text of the first choice, but as a number it means the
	// second slot.
	it, err := Canonicalize(mcRecord("1 + 1 = ?", []string{"2", "3", "4", "5"}, String("2")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Answer != "ข" {
		t.Fatalf("answer = %q, want ข", it.Answer)
	}
}

func TestCanonicalize_OneBasedIndexProperty(t *testing.T) {
	choices := []string{"w", "x", "y", "z"}
	for n := 1; n <= 4; n++ {
		it, err := Canonicalize(mcRecord("Q", choices, Number(string(rune('0'+n)))))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := MarkerAnswer(Position(n - 1)); it.Answer != want {
			t.Errorf("answer %d resolved to %q, want %q", n, it.Answer, want)
		}
		if it.CorrectChoice() != choices[n-1] {
			t.Errorf("answer %d points at %q", n, it.CorrectChoice())
		}
	}
}

func TestCanonicalize_TrueFalse(t *testing.T) {
	tests := []struct {
		answer Value
		want   Answer
	}{
		{String("ถูก"), AnswerTrue},
		{String("ผิด"), AnswerFalse},
		{String("จริง"), AnswerTrue},
		{String("เท็จ"), AnswerFalse},
		{String("TRUE"), AnswerTrue},
		{String("y"), AnswerTrue},
		{String("n"), AnswerFalse},
		{Number("1"), AnswerTrue},
		{Number("0"), AnswerFalse},
		{Bool(true), AnswerTrue},
		{Bool(false), AnswerFalse},
		{String("ไม่ถูกต้อง"), AnswerFalse},
		{String("perhaps"), AnswerFalse},
		{Value{}, AnswerFalse},
	}
	for _, tt := range tests {
		rec := Record{"type": String("tf"), "question": String("The sky is blue."), "answer": tt.answer}
		it, err := Canonicalize(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if it.Answer != tt.want {
			t.Errorf("answer %q -> %q, want %q", tt.answer.Text(), it.Answer, tt.want)
		}
		if it.Choices != nil {
			t.Errorf("true-false item has choices %q", it.Choices)
		}
	}
}

func TestCanonicalizeAll(t *testing.T) {
	records := []Record{
		{"type": String("tf"), "question": String("A")},
		{"question": String("no kind")},
		{"type": String("mcq"), "question": String("B")},
	}
	items, rejected := CanonicalizeAll(records)
	if len(items) != 2 || rejected != 1 {
		t.Fatalf("got %d items, %d rejected", len(items), rejected)
	}
	if items[0].Text != "A" || items[1].Text != "B" {
		t.Fatalf("order not preserved: %+v", items)
	}
}
