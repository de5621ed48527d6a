package content

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	sentenceBreak = regexp.MustCompile(`[。.!?]\s+|[\n\r]+`)
	blankLines    = regexp.MustCompile(`\n{2,}`)
	spaceRuns     = regexp.MustCompile(` {2,}`)
)

// cleanText collapses blank-line runs and repeated spaces.
func cleanText(s string) string {
	s = blankLines.ReplaceAllString(s, "\n\n")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// sentences splits text at sentence punctuation followed by whitespace and
// at line breaks. Blank pieces are dropped.
func sentences(s string) []string {
	var out []string
	for _, part := range sentenceBreak.Split(strings.TrimSpace(s), -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// numberSentences renders at most limit sentences as "[id] text" lines,
// numbered from 1.
func numberSentences(sents []string, limit int) string {
	if limit > 0 && len(sents) > limit {
		sents = sents[:limit]
	}
	var b strings.Builder
	for i, s := range sents {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%d] %s", i+1, s)
	}
	return b.String()
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
