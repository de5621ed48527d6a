package play

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edugen/edugen/internal/store"
	"github.com/edugen/edugen/internal/ui/components"
	"github.com/edugen/edugen/internal/ui/theme"
)

var errEmptyQuiz = errors.New("this quiz has no questions")

type quizzesMsg struct {
	quizzes []store.QuizSummary
	err     error
}

type quizLoadedMsg struct {
	game game
	err  error
}

func loadQuiz(ctx context.Context, bank Bank, id int64) tea.Cmd {
	return func() tea.Msg {
		qz, err := bank.GetQuiz(ctx, id)
		if err != nil {
			return quizLoadedMsg{err: err}
		}
		if len(qz.Questions) == 0 {
			return quizLoadedMsg{err: errEmptyQuiz}
		}
		return quizLoadedMsg{game: game{quizID: qz.ID, title: qz.Title, items: qz.Items()}}
	}
}

// picker lists the banked quizzes.
type picker struct {
	ctx    context.Context
	opts   Options
	menu   components.Menu
	loaded bool
	empty  bool
	err    error
}

func newPicker(ctx context.Context, opts Options) *picker {
	return &picker{ctx: ctx, opts: opts}
}

func (p *picker) Init() tea.Cmd {
	return func() tea.Msg {
		quizzes, err := p.opts.Bank.ListQuizzes(p.ctx)
		return quizzesMsg{quizzes: quizzes, err: err}
	}
}

func (p *picker) Title() string { return "Choose a quiz" }

func (p *picker) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizzesMsg:
		p.loaded = true
		p.err = msg.err
		p.empty = len(msg.quizzes) == 0
		items := make([]components.MenuItem, len(msg.quizzes))
		for i, qz := range msg.quizzes {
			id := qz.ID
			items[i] = components.MenuItem{
				Label:    fmt.Sprintf("%s (%d questions)", qz.Title, qz.QuestionCount),
				Disabled: qz.QuestionCount == 0,
				Action:   func() tea.Cmd { return loadQuiz(p.ctx, p.opts.Bank, id) },
			}
		}
		p.menu = components.NewMenu(items)
		return p, nil

	case quizLoadedMsg:
		if msg.err != nil {
			p.err = msg.err
			return p, nil
		}
		p.err = nil
		next := start(p.ctx, p.opts, msg.game)
		return p, func() tea.Msg { return pushScreenMsg{screen: next} }

	case tea.KeyMsg:
		if msg.String() == "q" {
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.menu, cmd = p.menu.Update(msg)
	return p, cmd
}

func (p *picker) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Quizzes"))
	b.WriteString("\n\n")

	switch {
	case !p.loaded:
		b.WriteString(theme.Hint.Render("Loading..."))
	case p.empty:
		b.WriteString(theme.Hint.Render("No quizzes saved yet. Build one with `edugen build`."))
	default:
		b.WriteString(p.menu.View())
	}
	if p.err != nil {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render(p.err.Error()))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// loader fetches the quiz named on the command line, then hands over to
// the first play screen.
type loader struct {
	ctx  context.Context
	opts Options
	err  error
}

func newLoader(ctx context.Context, opts Options) *loader {
	return &loader{ctx: ctx, opts: opts}
}

func (l *loader) Init() tea.Cmd {
	if l.opts.Bank == nil {
		return func() tea.Msg { return quizLoadedMsg{err: errors.New("no question bank to load from")} }
	}
	return loadQuiz(l.ctx, l.opts.Bank, l.opts.QuizID)
}

func (l *loader) Title() string { return "Loading" }

func (l *loader) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizLoadedMsg:
		if msg.err != nil {
			l.err = fmt.Errorf("load quiz %d: %w", l.opts.QuizID, msg.err)
			return l, nil
		}
		return l, replaceWith(start(l.ctx, l.opts, msg.game))
	case tea.KeyMsg:
		if l.err != nil {
			return l, tea.Quit
		}
	}
	return l, nil
}

func (l *loader) View(width, height int) string {
	text := theme.Hint.Render("Loading quiz...")
	if l.err != nil {
		text = theme.Incorrect.Render(l.err.Error()) + "\n\n" + theme.Hint.Render("press any key to exit")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}
