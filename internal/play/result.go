package play

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edugen/edugen/internal/store"
	"github.com/edugen/edugen/internal/ui/layout"
	"github.com/edugen/edugen/internal/ui/theme"
)

type attemptSavedMsg struct {
	id  int64
	err error
}

// result shows the final score and records the attempt for banked
// quizzes.
type result struct {
	ctx    context.Context
	bank   Bank
	game   game
	player string
	score  int

	saved bool
	err   error
}

func newResult(ctx context.Context, bank Bank, g game, player string, score int) *result {
	return &result{ctx: ctx, bank: bank, game: g, player: player, score: score}
}

func (r *result) recordable() bool {
	return r.bank != nil && r.game.quizID != 0 && len(r.game.items) > 0
}

func (r *result) Init() tea.Cmd {
	if !r.recordable() {
		return nil
	}
	attempt := store.Attempt{
		QuizID: r.game.quizID,
		Player: r.player,
		Score:  r.score,
		Total:  len(r.game.items),
	}
	return func() tea.Msg {
		id, err := r.bank.RecordAttempt(r.ctx, attempt)
		return attemptSavedMsg{id: id, err: err}
	}
}

func (r *result) Title() string { return r.game.title }

func (r *result) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter/q", Description: "Exit"}}
}

func (r *result) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case attemptSavedMsg:
		r.saved = msg.err == nil
		r.err = msg.err
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q":
			return r, tea.Quit
		}
	}
	return r, nil
}

// Percent returns the score as a whole percentage.
func (r *result) Percent() int {
	if len(r.game.items) == 0 {
		return 0
	}
	return r.score * 100 / len(r.game.items)
}

func (r *result) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%s scored ", r.player)))
	b.WriteString(theme.Score.Render(fmt.Sprintf("%d/%d", r.score, len(r.game.items))))
	b.WriteString(theme.Dim.Render(fmt.Sprintf("  (%d%%)", r.Percent())))
	b.WriteString("\n\n")

	switch {
	case r.err != nil:
		b.WriteString(theme.Incorrect.Render("Could not save the score: " + r.err.Error()))
	case r.saved:
		b.WriteString(theme.Correct.Render("Score saved."))
	case r.recordable():
		b.WriteString(theme.Hint.Render("Saving score..."))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(b.String()))
}
