package quizgen

import (
	"fmt"
	"strings"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/textsim"
)

const systemPrompt = `You are an exam writer for Thai classrooms. You write quiz questions
from the study material the user provides, and from nothing else.

Rules:
- Write in the language of the material. Thai material gets Thai questions.
- Every question must be answerable from the material alone.
- Each question tests one idea. Do not ask the same idea twice.
- Keep questions self-contained: never refer to "the passage" or "the text above".
- Give a short explanation for every answer, grounded in the material.
- Fill "topic" with the concept the question tests.
- Never write a question similar to one in the "avoid" list.`

const mcqRules = `Write %d multiple-choice questions (ข้อสอบปรนัย).
- Exactly 4 options, labelled "ก) ", "ข) ", "ค) ", "ง) ".
- Exactly one option is correct; "answer" is its marker: ก, ข, ค or ง.
- Distractors must be plausible. Never use "all of the above", "none of the above" or "both ก and ข".
- Spread the correct answer across positions.`

const tfRules = `Write %d true-false statements (ข้อสอบถูก/ผิด).
- Each statement is clearly true or clearly false according to the material.
- Mix true and false statements.
- "answer" is "true" or "false".`

// buildUserMessage constructs the user message for one generation request.
func buildUserMessage(req quiz.GenerateRequest, n int, cfg Config) string {
	var b strings.Builder

	rules := mcqRules
	if req.Kind == quiz.KindTrueFalse {
		rules = tfRules
	}
	fmt.Fprintf(&b, rules, n)
	b.WriteString("\n")

	if topics := buildTopics(req.Topics, n); topics != "" {
		b.WriteString("\nWrite one question per topic, in this order:\n")
		b.WriteString(topics)
		b.WriteString("\n")
	}

	if exclude := buildExclusions(req.Exclude, cfg.ExcludeLimit); exclude != "" {
		b.WriteString("\nAvoid questions similar to:\n")
		b.WriteString(exclude)
		b.WriteString("\n")
	}

	limit := cfg.ContextLimit
	if limit <= 0 {
		limit = DefaultConfig().ContextLimit
	}
	b.WriteString("\nMaterial:\n")
	b.WriteString(textsim.Truncate(strings.TrimSpace(req.Context), limit))

	return b.String()
}

// buildExclusions formats prior question texts for the prompt, keeping the
// most recent limit. Returns "" when there is nothing to exclude.
func buildExclusions(prior []string, limit int) string {
	var texts []string
	for _, p := range prior {
		if p = strings.TrimSpace(p); p != "" {
			texts = append(texts, p)
		}
	}
	if limit > 0 && len(texts) > limit {
		texts = texts[len(texts)-limit:]
	}
	return bulletList(texts)
}

// buildTopics formats at most n topic hints.
func buildTopics(topics []string, n int) string {
	var out []string
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" && len(out) < n {
			out = append(out, t)
		}
	}
	return bulletList(out)
}

func bulletList(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "- " + strings.Join(lines, "\n- ")
}
