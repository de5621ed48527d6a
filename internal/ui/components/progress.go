package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/edugen/edugen/internal/ui/theme"
)

// ProgressBar shows how far through the quiz the player is.
type ProgressBar struct {
	Done  int
	Total int
	Width int
}

// NewProgressBar creates a bar for done of total questions.
func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// Percent returns the completed fraction in [0, 1].
func (p ProgressBar) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

// View renders the bar followed by "done/total".
func (p ProgressBar) View() string {
	label := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	barWidth := max(p.Width-lipgloss.Width(label), 4)

	filled := int(float64(barWidth) * p.Percent())
	return lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Dim.Render(label)
}
