package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput for short single-line answers such as
// the player's name.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a focused text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Init starts the cursor blinking.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}
