package textsim

import (
	"math"
	"reflect"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"What is Go?", []string{"what", "is", "go"}},
		{"แมว และ สุนัข", []string{"แมว", "สุนัข"}},
		{"เด็กๆ เล่น", []string{"เด็ก", "เล่น"}},
		{"!!!", []string{}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	if got := Jaccard("a b c", "a b d"); !approx(got, 2.0/4.0) {
		t.Errorf("Jaccard = %v, want 0.5", got)
	}
	if got := Jaccard("", "a"); got != 0 {
		t.Errorf("Jaccard with empty = %v, want 0", got)
	}
	if got := Jaccard("และ หรือ", "และ หรือ"); got != 0 {
		t.Errorf("Jaccard of stop words only = %v, want 0", got)
	}
}

func TestDiceBigram(t *testing.T) {
	// "night" vs "nacht": ni ig gh ht / na ac ch ht -> one shared bigram.
	if got := DiceBigram("night", "nacht"); !approx(got, 2.0/8.0) {
		t.Errorf("DiceBigram = %v, want 0.25", got)
	}
	// Multiset matching: "aaa" has {aa, aa}, "aa" has {aa}.
	if got := DiceBigram("aaa", "aa"); !approx(got, 2.0/3.0) {
		t.Errorf("DiceBigram multiset = %v, want 2/3", got)
	}
	if got := DiceBigram("a", "a"); got != 0 {
		t.Errorf("DiceBigram single char = %v, want 0", got)
	}
	if got := DiceBigram("a  b", "a b"); got != 1 {
		t.Errorf("DiceBigram ignores whitespace runs = %v, want 1", got)
	}
}

func TestSimilarity_Identity(t *testing.T) {
	for _, s := range []string{"What is Go?", "x", "?", "และ", "ข้อใดเป็นสัตว์ปีก"} {
		if got := Similarity(s, s); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestSimilarity_Symmetry(t *testing.T) {
	texts := []string{
		"What is the capital of France?",
		"Which city is the capital of France?",
		"ข้อใดคือเมืองหลวงของประเทศไทย",
		"เมืองหลวงของประเทศไทยคือข้อใด",
		"aaa",
		"aa",
		"",
	}
	for _, a := range texts {
		for _, b := range texts {
			if Similarity(a, b) != Similarity(b, a) {
				t.Errorf("Similarity(%q, %q) != Similarity(%q, %q)", a, b, b, a)
			}
			if s := Similarity(a, b); s < 0 || s > 1 {
				t.Errorf("Similarity(%q, %q) = %v out of range", a, b, s)
			}
		}
	}
}

func TestIsNearDuplicate(t *testing.T) {
	a := "What is the capital city of France?"
	b := "What is the capital city of France ?!"
	if !IsNearDuplicate(a, b, DefaultThreshold) {
		t.Errorf("expected %q and %q to be near-duplicates (score %v)", a, b, Similarity(a, b))
	}
	c := "How many legs does a spider have?"
	if IsNearDuplicate(a, c, DefaultThreshold) {
		t.Errorf("expected %q and %q to differ (score %v)", a, c, Similarity(a, c))
	}
}
