package content

import (
	"reflect"
	"testing"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"One. Two! Three? Four", []string{"One", "Two", "Three", "Four"}},
		{"Line one\nLine two\r\n\nLine three", []string{"Line one", "Line two", "Line three"}},
		{"Version 1.5 is out.", []string{"Version 1.5 is out."}},
		{"ข้อแรก。ข้อสอง", []string{"ข้อแรก。ข้อสอง"}},
		{"  \n\n ", nil},
	}
	for _, tt := range tests {
		if got := sentences(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("sentences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	got := cleanText("  a    b\n\n\n\nc  ")
	if got != "a b\n\nc" {
		t.Errorf("cleanText = %q", got)
	}
}

func TestNumberSentences(t *testing.T) {
	got := numberSentences([]string{"a", "b", "c"}, 2)
	if got != "[1] a\n[2] b" {
		t.Errorf("numberSentences = %q", got)
	}
}
