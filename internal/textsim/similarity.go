package textsim

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold is the similarity at or above which two question texts
// are near-duplicates.
const DefaultThreshold = 0.78

// Similarity returns max(Jaccard, DiceBigram) for a and b. The score is
// symmetric and lies in [0, 1]; identical non-empty texts score 1.
func Similarity(a, b string) float64 {
	if a == b && a != "" {
		return 1
	}
	return max(Jaccard(a, b), DiceBigram(a, b))
}

// IsNearDuplicate reports whether Similarity(a, b) meets threshold.
func IsNearDuplicate(a, b string, threshold float64) bool {
	return Similarity(a, b) >= threshold
}

// Tokenize splits text into lower-cased word tokens, dropping punctuation
// and stop words.
func Tokenize(text string) []string {
	text = strings.ToLower(norm.NFKC.String(text))
	cleaned := strings.Map(func(r rune) rune {
		if r == repetitionMark || !(isWordRune(r) || unicode.IsSpace(r)) {
			return ' '
		}
		return r
	}, text)

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if !IsStopWord(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the token sets of a and b, or 0
// when either set is empty.
func Jaccard(a, b string) float64 {
	setA := toSet(Tokenize(a))
	setB := toSet(Tokenize(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// DiceBigram returns the Sørensen–Dice coefficient over character bigrams
// of a and b after whitespace collapsing. Bigrams are matched as a
// multiset, so each occurrence is consumed once.
func DiceBigram(a, b string) float64 {
	bigramsA := bigrams(a)
	bigramsB := bigrams(b)
	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0
	}

	counts := make(map[string]int, len(bigramsA))
	for _, bg := range bigramsA {
		counts[bg]++
	}
	matches := 0
	for _, bg := range bigramsB {
		if counts[bg] > 0 {
			counts[bg]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(len(bigramsA)+len(bigramsB))
}

func bigrams(s string) []string {
	runes := []rune(strings.Join(strings.Fields(s), " "))
	if len(runes) < 2 {
		return nil
	}
	out := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		out = append(out, string(runes[i:i+2]))
	}
	return out
}
