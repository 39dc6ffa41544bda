package tui

import (
	"strings"

	"github.com/theirongolddev/spendview/internal/render"
	"github.com/theirongolddev/spendview/internal/tui/components"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// shareRowChrome is everything on a ShareBar row except the label and bar.
const shareRowChrome = 2 + 1 + 1 + 12 + 1 + 8

func (a App) renderCategoryTab(cw int) string {
	t := theme.Active
	widths := components.LayoutRow(cw, 2)

	left := a.chartCard(render.CategorySurface, a.catCursor, widths[0])

	tc := a.liveChart(render.CategorySurface)
	if tc == nil {
		return left
	}
	cfg := tc.Config()

	inner := components.CardInnerWidth(widths[1])
	labelW := 0
	for _, l := range cfg.Labels {
		labelW = max(labelW, min(18, lipgloss.Width(l)))
	}
	barW := max(6, inner-labelW-shareRowChrome-2)

	markerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	rows := components.ShareBars(cfg, barW)
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("No spending in this window"))
	}
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		if i == a.catCursor {
			b.WriteString(markerStyle.Render("▸ "))
		} else {
			b.WriteString(spaceStyle.Render("  "))
		}
		b.WriteString(row)
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("↑/↓ inspect a category · esc clear"))

	right := components.ContentCard("Share of Spending", b.String(), widths[1])
	return components.CardRow([]string{left, right})
}
