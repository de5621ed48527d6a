package play

import (
	tea "charm.land/bubbletea/v2"

	"github.com/edugen/edugen/internal/ui/layout"
)

// Screen is one page of the player.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen show status, such as the running score, on
// the right of the header.
type StatusProvider interface {
	Status() string
}

// replaceScreenMsg swaps the active screen for a new one.
type replaceScreenMsg struct {
	screen Screen
}

// pushScreenMsg opens a screen on top of the active one.
type pushScreenMsg struct {
	screen Screen
}

// popScreenMsg returns to the previous screen.
type popScreenMsg struct{}

func replaceWith(s Screen) tea.Cmd {
	return func() tea.Msg { return replaceScreenMsg{screen: s} }
}

// router keeps the stack of screens. The player only goes deeper than one
// screen when a quiz is picked from the bank.
type router struct {
	stack []Screen
}

func newRouter(initial Screen) *router {
	return &router{stack: []Screen{initial}}
}

func (r *router) push(s Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *router) pop() {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

func (r *router) replace(s Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

func (r *router) active() Screen {
	return r.stack[len(r.stack)-1]
}

func (r *router) depth() int {
	return len(r.stack)
}

func (r *router) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pushScreenMsg:
		return r.push(msg.screen)
	case replaceScreenMsg:
		return r.replace(msg.screen)
	case popScreenMsg:
		r.pop()
		return nil
	}

	updated, cmd := r.active().Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}
