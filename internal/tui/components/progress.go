package components

import (
	"fmt"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ShareBar renders one category row: swatch, label, share bar, amount and
// percentage of sum. The bar is filled with the slice color.
func ShareBar(label string, color chart.Color, value, sum float64, labelW, barWidth int) string {
	t := theme.Active

	pct := cli.SharePercent(value, sum) / 100
	pct = max(0, min(1, pct))

	fill := Color(color)
	bar := progress.New(
		progress.WithSolidFill(string(fill)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	swatchStyle := lipgloss.NewStyle().Foreground(fill).Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return swatchStyle.Render("● ") +
		labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		valueStyle.Render(cli.FormatCurrency(value)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("(%s%%)", cli.FormatShare(value, sum)))
}

// ShareBars renders a ShareBar per slice of a doughnut config.
func ShareBars(cfg chart.Config, barWidth int) []string {
	labelW := 0
	for _, l := range cfg.Labels {
		labelW = max(labelW, lipgloss.Width(l))
	}
	labelW = min(labelW, 18)

	sum := cfg.Sum()
	rows := make([]string, 0, cfg.Len())
	for i, l := range cfg.Labels {
		rows = append(rows, ShareBar(l, cfg.SliceColor(i), cfg.Dataset.Values[i], sum, labelW, barWidth))
	}
	return rows
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}
