package play

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edugen/edugen/internal/ui/components"
	"github.com/edugen/edugen/internal/ui/layout"
	"github.com/edugen/edugen/internal/ui/theme"
)

// questions asks every item in turn. After each answer it shows whether
// the pick was right and the explanation until the player presses enter.
type questions struct {
	ctx     context.Context
	opts    Options
	game    game
	player  string
	current int
	score   int
	choice  components.MultiChoice
}

func newQuestions(ctx context.Context, opts Options, g game, player string) *questions {
	q := &questions{ctx: ctx, opts: opts, game: g, player: player}
	if len(g.items) > 0 {
		q.choice = components.NewMultiChoice(g.items[0])
	}
	return q
}

func (q *questions) Init() tea.Cmd {
	if len(q.game.items) == 0 {
		return replaceWith(q.result())
	}
	return nil
}

func (q *questions) Title() string { return q.game.title }

func (q *questions) Status() string {
	return fmt.Sprintf("%s  ★ %d", q.player, q.score)
}

func (q *questions) KeyHints() []layout.KeyHint {
	if q.choice.Submitted {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "1-4", Description: "Jump"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (q *questions) Update(msg tea.Msg) (Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return q, nil
	}

	if q.choice.Submitted {
		if kmsg.String() != "enter" {
			return q, nil
		}
		if q.current+1 >= len(q.game.items) {
			return q, replaceWith(q.result())
		}
		q.current++
		q.choice = components.NewMultiChoice(q.game.items[q.current])
		return q, nil
	}

	q.choice, _ = q.choice.Update(msg)
	if q.choice.IsCorrect() {
		q.score++
	}
	return q, nil
}

func (q *questions) result() *result {
	return newResult(q.ctx, q.opts.Bank, q.game, q.player, q.score)
}

func (q *questions) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Dim.Render(fmt.Sprintf("Question %d of %d", q.current+1, len(q.game.items))))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar(q.current, len(q.game.items), min(width-8, 50)).View())
	b.WriteString("\n\n")
	b.WriteString(q.choice.View())

	if q.choice.Submitted {
		b.WriteString("\n")
		it := q.game.items[q.current]
		if q.choice.IsCorrect() {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite. The answer is " + it.AnswerLabel()))
		}
		if it.Explanation != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.Body.Width(min(width-8, 70)).Render(it.Explanation))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(b.String()))
}
