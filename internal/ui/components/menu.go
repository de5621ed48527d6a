package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/edugen/edugen/internal/ui/theme"
)

// MenuItem is one entry of a Menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{Items: items, Selected: selected}
}

// Update handles keyboard navigation, skipping disabled items.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			if item := m.Items[m.Selected]; item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var s string
	for i, item := range m.Items {
		switch {
		case i == m.Selected:
			s += theme.Selected.Render("  ▸ "+item.Label) + "\n"
		case item.Disabled:
			s += theme.Dim.Render("    "+item.Label) + "\n"
		default:
			s += theme.Unselected.Render("    "+item.Label) + "\n"
		}
	}
	return s
}
