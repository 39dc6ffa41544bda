package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar with the key hints on the
// left and the window and data age on the right.
func RenderStatusBar(width, days int, dataAge string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [r]efresh  [7/3/9]days  [←→↑↓]inspect  [q]uit"
	right := fmt.Sprintf("%dd ", days)
	if dataAge != "" {
		right = fmt.Sprintf("%dd · updated %s ", days, dataAge)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
