package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

const sectionsSystemPrompt = `You are a teacher editing a document summary. Work only from the
numbered sentences you are given.
- Identify 5-9 main sections.
- Summarize each section in 3-6 sentences.
- Write in the language of the document.`

const overviewSystemPrompt = `You summarize concisely and clearly, using only the source sentences
and the section list you are given.
- "overview" is one paragraph.
- "key_points" are short statements of the most important facts.
- "data_points" are figures quoted in the text; leave "unit" empty when there is none.
- Write in the language of the document.`

const topicsSystemPrompt = `Extract the key topics and concepts of the text. Return at most %d short
topic names in the language of the text, most important first.`

const answerSystemPrompt = `Answer the question using only the text below.
If the text does not contain the answer, reply exactly: ` + NotFoundAnswer

func buildSectionsMessage(numbered string) string {
	return "Sentences:\n" + numbered
}

func buildOverviewMessage(numbered string, sections []Section) string {
	var b strings.Builder
	b.WriteString("Sentences:\n")
	b.WriteString(numbered)
	b.WriteString("\n\nSections:\n")
	data, _ := json.Marshal(map[string]any{"sections": sections})
	b.Write(data)
	return b.String()
}

func buildTopicsSystem(limit int) string {
	return fmt.Sprintf(topicsSystemPrompt, limit)
}

func buildAnswerMessage(text, question string) string {
	return fmt.Sprintf("Text:\n%s\n\nQuestion: %s\nAnswer:", text, question)
}
