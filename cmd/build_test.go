package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/quizfile"
	"github.com/edugen/edugen/internal/session"
	"github.com/edugen/edugen/internal/store"
)

var facts = []string{
	"Spiders have eight legs.",
	"Mercury is the planet closest to the sun.",
	"Shakespeare wrote Romeo and Juliet.",
	"Plants absorb carbon dioxide from the air.",
}

func newTestBuilder(t *testing.T) (*builder, *bytes.Buffer, *store.Bank) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "edugen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	next := 0
	gen := quiz.GeneratorFunc(func(_ context.Context, req quiz.GenerateRequest) ([]quiz.Record, error) {
		var out []quiz.Record
		for i := 0; i < req.Count && next < len(facts); i++ {
			out = append(out, quiz.Record{
				"type":     quiz.String("tf"),
				"question": quiz.String(facts[next]),
				"answer":   quiz.String("true"),
			})
			next++
		}
		return out, nil
	})

	sess := session.New("cli", quiz.NewCollector(gen, quiz.DefaultConfig(), zerolog.Nop()), nil)
	require.NoError(t, sess.SetSource(context.Background(), "Facts about nature."))

	var out bytes.Buffer
	return &builder{out: &out, session: sess, bank: st.Bank(), quota: 3}, &out, st.Bank()
}

func TestBuilder_Session(t *testing.T) {
	b, out, bank := newTestBuilder(t)
	dir := t.TempDir()
	script := strings.Join([]string{
		"tf",
		"tf",
		"drop 1",
		"list",
		"topics plants, planets",
		"write " + filepath.Join(dir, "quiz.yaml"),
		"save Nature",
		"bogus",
		"quit",
		"tf",
	}, "\n")

	require.NoError(t, b.loop(context.Background(), strings.NewReader(script)))
	got := out.String()

	assert.Contains(t, got, "[true-false] Spiders have eight legs.")
	assert.Contains(t, got, "Already have 3 true-false questions.")
	assert.Contains(t, got, "Dropped: ")
	assert.Contains(t, got, "Topics: plants, planets")
	assert.Contains(t, got, `Saved quiz 1 "Nature" with 2 questions.`)
	assert.Contains(t, got, `error: unknown command "bogus"`)
	assert.Equal(t, []string{"plants", "planets"}, b.session.Topics())

	quizzes, err := bank.ListQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, 2, quizzes[0].QuestionCount)

	doc, rejected, err := quizfile.Load(filepath.Join(dir, "quiz.yaml"))
	require.NoError(t, err)
	assert.Zero(t, rejected)
	assert.Len(t, doc.Questions, 2)
}

func TestBuilder_NoNewItems(t *testing.T) {
	b, out, _ := newTestBuilder(t)
	script := "tf 10\ntf 10\ntf 10\n"

	require.NoError(t, b.loop(context.Background(), strings.NewReader(script)))
	assert.Contains(t, out.String(), "No new questions this time.")
	assert.Len(t, b.session.Items(), len(facts))
}

func TestBuilder_TopicsNeedProvider(t *testing.T) {
	b, out, _ := newTestBuilder(t)
	require.NoError(t, b.loop(context.Background(), strings.NewReader("topics\n")))
	assert.Contains(t, out.String(), "topic extraction needs an LLM provider")
}

func TestBuilder_Usage(t *testing.T) {
	b, out, _ := newTestBuilder(t)
	require.NoError(t, b.loop(context.Background(), strings.NewReader("drop x\nsave\ntf 0\n")))
	got := out.String()
	assert.Contains(t, got, "usage: drop N")
	assert.Contains(t, got, "usage: save TITLE")
	assert.Contains(t, got, "usage: tf [quota]")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "กขค", truncate("กขคง", 3))
	assert.Equal(t, "short", truncate("short", 10))
}
