// Package textsim implements lexical text comparison for question texts:
// exact-match keys and a near-duplicate similarity score.
package textsim

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Key returns the exact-match key for a question text. Texts that differ
// only in punctuation, letter case or whitespace share a key.
func Key(text string) string {
	text = norm.NFKC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			space = true
		case isWordRune(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// isWordRune reports whether r belongs to a word. Combining marks count as
// word characters so scripts with dependent vowels (Thai, Devanagari) keep
// their words intact.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
