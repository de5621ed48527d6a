// Package play is the terminal quiz player: pick a quiz, enter a name,
// answer each question with instant feedback and record the score.
package play

import (
	"context"
	"math/rand/v2"

	tea "charm.land/bubbletea/v2"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/store"
	"github.com/edugen/edugen/internal/ui/layout"
)

// Bank is the part of the question bank the player uses.
type Bank interface {
	ListQuizzes(ctx context.Context) ([]store.QuizSummary, error)
	GetQuiz(ctx context.Context, id int64) (*store.Quiz, error)
	RecordAttempt(ctx context.Context, a store.Attempt) (int64, error)
}

// Options configures a play session. Either Items (a quiz loaded from a
// file, never recorded) or Bank must be set. With a Bank and no QuizID the
// player starts on the quiz picker.
type Options struct {
	Bank   Bank
	QuizID int64

	Title string
	Items []quiz.Item

	// Player skips the name prompt when set.
	Player string

	// Shuffle reorders the questions and their choices.
	Shuffle bool
	Rand    *rand.Rand
}

// game is the quiz being played.
type game struct {
	quizID int64
	title  string
	items  []quiz.Item
}

type model struct {
	ctx    context.Context
	opts   Options
	router *router
	width  int
	height int
}

func newModel(ctx context.Context, opts Options) model {
	var first Screen
	switch {
	case opts.Bank != nil && opts.QuizID == 0 && len(opts.Items) == 0:
		first = newPicker(ctx, opts)
	case opts.QuizID != 0:
		first = newLoader(ctx, opts)
	default:
		first = start(ctx, opts, game{title: opts.Title, items: opts.Items})
	}
	return model{ctx: ctx, opts: opts, router: newRouter(first)}
}

// start returns the first screen for g: the name prompt, or the
// questions when the player is already known.
func start(ctx context.Context, opts Options, g game) Screen {
	if opts.Shuffle {
		g.items = quiz.Shuffle(g.items, opts.Rand)
	}
	if opts.Player == "" {
		return newNamePrompt(ctx, opts, g)
	}
	return newQuestions(ctx, opts, g, opts.Player)
}

func (m model) Init() tea.Cmd {
	return m.router.active().Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.depth() > 1 {
				return m, func() tea.Msg { return popScreenMsg{} }
			}
		}
	}

	return m, m.router.update(msg)
}

func (m model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.active()
	status := ""
	if sp, ok := active.(StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	content := active.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run plays until the player quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
