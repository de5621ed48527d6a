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

const maxNameLength = 40

type namePrompt struct {
	ctx   context.Context
	opts  Options
	game  game
	input components.TextInput
}

func newNamePrompt(ctx context.Context, opts Options, g game) *namePrompt {
	return &namePrompt{
		ctx:   ctx,
		opts:  opts,
		game:  g,
		input: components.NewTextInput("your name", maxNameLength),
	}
}

func (n *namePrompt) Init() tea.Cmd {
	return n.input.Init()
}

func (n *namePrompt) Title() string { return n.game.title }

func (n *namePrompt) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (n *namePrompt) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		name := n.input.Value()
		if name == "" {
			return n, nil
		}
		return n, replaceWith(newQuestions(n.ctx, n.opts, n.game, name))
	}

	var cmd tea.Cmd
	n.input, cmd = n.input.Update(msg)
	return n, cmd
}

func (n *namePrompt) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(n.game.title))
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render(pluralQuestions(len(n.game.items))))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("Who is playing?"))
	b.WriteString("\n\n")
	b.WriteString(n.input.View())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(b.String()))
}

func pluralQuestions(n int) string {
	if n == 1 {
		return "1 question"
	}
	return fmt.Sprintf("%d questions", n)
}
