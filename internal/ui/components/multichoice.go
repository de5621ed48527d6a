package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/ui/theme"
)

// MultiChoice asks one quiz item. Multiple-choice items list their options
// under the ก-ง markers; true-false items offer จริง and เท็จ.
type MultiChoice struct {
	Item        quiz.Item
	Options     []string
	Correct     int
	Selected    int
	Submitted   bool
	ChosenIndex int
}

// NewMultiChoice creates the selector for it.
func NewMultiChoice(it quiz.Item) MultiChoice {
	m := MultiChoice{Item: it, ChosenIndex: -1}
	switch it.Kind {
	case quiz.KindTrueFalse:
		m.Options = []string{"จริง", "เท็จ"}
		if !it.Truth() {
			m.Correct = 1
		}
	default:
		m.Options = it.Choices
		m.Correct = it.CorrectIndex()
	}
	return m
}

// Update moves the cursor with the arrow or vim keys, jumps with the
// marker number keys and submits on enter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "1", "2", "3", "4":
		if i := int(key[0] - '1'); i < len(m.Options) {
			m.Selected = i
		}
	case "enter":
		if len(m.Options) > 0 {
			m.Submitted = true
			m.ChosenIndex = m.Selected
		}
	}
	return m, nil
}

// View renders the question and its options. Once submitted the correct
// option turns green and a wrong pick red.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Item.Text))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s.  %s", prefix, quiz.Position(i).Marker(), opt)

		style := theme.Unselected
		switch {
		case m.Submitted && i == m.Correct:
			style = theme.Correct
		case m.Submitted && i == m.ChosenIndex:
			style = theme.Incorrect
		case m.Submitted:
			style = theme.Dim
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect reports whether the submitted option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.Correct
}
