package play

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/store"
)

type fakeBank struct {
	quizzes  map[int64]*store.Quiz
	attempts []store.Attempt
	err      error
}

func (f *fakeBank) ListQuizzes(context.Context) ([]store.QuizSummary, error) {
	var out []store.QuizSummary
	for _, qz := range f.quizzes {
		out = append(out, store.QuizSummary{ID: qz.ID, Title: qz.Title, QuestionCount: len(qz.Questions)})
	}
	return out, f.err
}

func (f *fakeBank) GetQuiz(_ context.Context, id int64) (*store.Quiz, error) {
	qz, ok := f.quizzes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return qz, nil
}

func (f *fakeBank) RecordAttempt(_ context.Context, a store.Attempt) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.attempts = append(f.attempts, a)
	return int64(len(f.attempts)), nil
}

var testItems = []quiz.Item{
	{Kind: quiz.KindTrueFalse, Text: "Penguins can fly.", Answer: quiz.AnswerFalse, Explanation: "They swim instead."},
	{Kind: quiz.KindMultipleChoice, Text: "Largest ocean?", Choices: []string{"Atlantic", "Pacific", "Indian", "Arctic"}, Answer: "ข"},
}

func newFakeBank() *fakeBank {
	qz := &store.Quiz{ID: 7, Title: "Nature"}
	for i, it := range testItems {
		qz.Questions = append(qz.Questions, store.Question{ID: int64(i + 1), Item: it})
	}
	return &fakeBank{quizzes: map[int64]*store.Quiz{7: qz}}
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func text(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

// drain runs cmd and feeds its message back into r until no command is
// left.
func drain(t *testing.T, r *router, cmd tea.Cmd) {
	t.Helper()
	for range 10 {
		if cmd == nil {
			return
		}
		msg := cmd()
		if msg == nil {
			return
		}
		cmd = r.update(msg)
	}
	t.Fatal("too many chained commands")
}

func TestQuestions_ScoresAndAdvances(t *testing.T) {
	g := game{quizID: 7, title: "Nature", items: testItems}
	r := newRouter(newQuestions(context.Background(), Options{}, g, "Ploy"))

	// เท็จ is the second option.
	drain(t, r, r.update(key(tea.KeyDown)))
	drain(t, r, r.update(key(tea.KeyEnter)))
	q := r.active().(*questions)
	if q.score != 1 {
		t.Fatalf("expected score 1, got %d", q.score)
	}
	if !strings.Contains(q.View(80, 30), "They swim instead.") {
		t.Error("expected explanation after answering")
	}

	drain(t, r, r.update(key(tea.KeyEnter)))
	if q.current != 1 {
		t.Fatalf("expected second question, got %d", q.current)
	}

	// Pick ก, which is wrong.
	drain(t, r, r.update(key(tea.KeyEnter)))
	if q.score != 1 {
		t.Errorf("expected score to stay 1, got %d", q.score)
	}
	if !strings.Contains(q.View(80, 30), "ข. Pacific") {
		t.Error("expected the correct answer to be shown")
	}

	drain(t, r, r.update(key(tea.KeyEnter)))
	res, ok := r.active().(*result)
	if !ok {
		t.Fatalf("expected result screen, got %T", r.active())
	}
	if res.score != 1 || res.Percent() != 50 {
		t.Errorf("expected 1/2 (50%%), got %d (%d%%)", res.score, res.Percent())
	}
	if res.recordable() {
		t.Error("expected no recording without a bank")
	}
}

func TestResult_RecordsAttempt(t *testing.T) {
	bank := newFakeBank()
	g := game{quizID: 7, title: "Nature", items: testItems}
	r := newRouter(newResult(context.Background(), bank, g, "Ploy", 2))
	drain(t, r, r.active().Init())

	if len(bank.attempts) != 1 {
		t.Fatalf("expected one attempt, got %d", len(bank.attempts))
	}
	want := store.Attempt{QuizID: 7, Player: "Ploy", Score: 2, Total: 2}
	if bank.attempts[0] != want {
		t.Errorf("attempt = %+v, want %+v", bank.attempts[0], want)
	}
	if !r.active().(*result).saved {
		t.Error("expected saved flag")
	}
}

func TestResult_SaveError(t *testing.T) {
	bank := newFakeBank()
	bank.err = errors.New("disk full")
	g := game{quizID: 7, title: "Nature", items: testItems}
	r := newRouter(newResult(context.Background(), bank, g, "Ploy", 0))
	drain(t, r, r.active().Init())

	if !strings.Contains(r.active().View(80, 30), "disk full") {
		t.Error("expected save error in view")
	}
}

func TestNamePrompt_RequiresName(t *testing.T) {
	g := game{title: "Nature", items: testItems}
	r := newRouter(newNamePrompt(context.Background(), Options{}, g))

	drain(t, r, r.update(key(tea.KeyEnter)))
	if _, ok := r.active().(*namePrompt); !ok {
		t.Fatalf("expected to stay on the name prompt, got %T", r.active())
	}

	for _, c := range "Ploy" {
		r.update(text(string(c)))
	}
	drain(t, r, r.update(key(tea.KeyEnter)))
	q, ok := r.active().(*questions)
	if !ok {
		t.Fatalf("expected questions screen, got %T", r.active())
	}
	if q.player != "Ploy" {
		t.Errorf("expected player Ploy, got %q", q.player)
	}
}

func TestPicker_PushesChosenQuiz(t *testing.T) {
	bank := newFakeBank()
	opts := Options{Bank: bank, Player: "Ploy"}
	m := newModel(context.Background(), opts)
	r := m.router

	drain(t, r, r.active().Init())
	if !strings.Contains(r.active().View(80, 30), "Nature (2 questions)") {
		t.Fatalf("expected quiz listing:\n%s", r.active().View(80, 30))
	}

	drain(t, r, r.update(key(tea.KeyEnter)))
	if r.depth() != 2 {
		t.Fatalf("expected the quiz pushed over the picker, depth %d", r.depth())
	}
	q, ok := r.active().(*questions)
	if !ok {
		t.Fatalf("expected questions screen, got %T", r.active())
	}
	if q.game.quizID != 7 || len(q.game.items) != 2 {
		t.Errorf("unexpected game %+v", q.game)
	}
}

func TestLoader_UnknownQuiz(t *testing.T) {
	opts := Options{Bank: newFakeBank(), QuizID: 99}
	m := newModel(context.Background(), opts)
	drain(t, m.router, m.router.active().Init())

	if !strings.Contains(m.router.active().View(80, 30), "load quiz 99") {
		t.Errorf("expected load error, got:\n%s", m.router.active().View(80, 30))
	}
}

func TestStart_Shuffle(t *testing.T) {
	opts := Options{Shuffle: true, Player: "Ploy"}
	s := start(context.Background(), opts, game{items: testItems})
	q := s.(*questions)
	if len(q.game.items) != len(testItems) {
		t.Fatalf("expected %d items, got %d", len(testItems), len(q.game.items))
	}
	for _, it := range q.game.items {
		if it.Kind == quiz.KindMultipleChoice && it.CorrectChoice() != "Pacific" {
			t.Errorf("expected the answer to follow Pacific, got %q", it.CorrectChoice())
		}
	}
}

func TestRouter_PushPopReplace(t *testing.T) {
	a := newResult(context.Background(), nil, game{title: "a"}, "x", 0)
	b := newResult(context.Background(), nil, game{title: "b"}, "x", 0)
	c := newResult(context.Background(), nil, game{title: "c"}, "x", 0)
	r := newRouter(a)

	r.update(pushScreenMsg{screen: b})
	if r.depth() != 2 || r.active().Title() != "b" {
		t.Fatalf("expected b on top, got %q at depth %d", r.active().Title(), r.depth())
	}
	r.update(replaceScreenMsg{screen: c})
	if r.depth() != 2 || r.active().Title() != "c" {
		t.Fatalf("expected c replacing b, got %q at depth %d", r.active().Title(), r.depth())
	}
	r.update(popScreenMsg{})
	r.update(popScreenMsg{})
	if r.depth() != 1 || r.active().Title() != "a" {
		t.Errorf("expected a at the bottom, got %q at depth %d", r.active().Title(), r.depth())
	}
}
