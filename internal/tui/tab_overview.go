package tui

import (
	"fmt"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/render"
	"github.com/theirongolddev/spendview/internal/tui/components"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// sparklineDays is how many recent days fit in a metric card.
const sparklineDays = 24

// overviewMetrics summarizes the loaded window for the metric cards.
func (a App) overviewMetrics() []components.Metric {
	resp := a.resp
	total := resp.Total()

	totalNote := cli.FormatDays(a.days)
	if a.took > 0 {
		totalNote += fmt.Sprintf(" · %dms", a.took.Milliseconds())
	}

	avg := components.Metric{Label: "Daily Average", Value: "-"}
	if n := len(resp.Daily); n > 0 {
		avg.Value = cli.FormatCurrency(total / float64(n))
		_, values := resp.DailyValues()
		avg.Note = components.Sparkline(values[max(0, n-sparklineDays):], theme.Active.Accent)
	}

	top := components.Metric{Label: "Top Category", Value: "-"}
	if c, ok := resp.TopCategory(); ok {
		top.Value = truncStr(c.Category, 24)
		top.Note = fmt.Sprintf("%s (%s%%)", cli.FormatCurrency(c.Total), cli.FormatShare(c.Total, total))
	}

	peak := components.Metric{Label: "Peak Day", Value: "-"}
	if d, ok := resp.PeakDay(); ok {
		peak.Value = cli.ShortDate(d.Date)
		peak.Note = cli.FormatCurrency(d.Total)
	}

	return []components.Metric{
		{Label: "Total Spent", Value: cli.FormatCurrency(total), Note: totalNote},
		avg,
		top,
		peak,
	}
}

func (a App) renderOverviewTab(cw int) string {
	widths := components.LayoutRow(cw, 2)
	charts := components.CardRow([]string{
		a.chartCard(render.CategorySurface, a.catCursor, widths[0]),
		a.chartCard(render.DailySurface, a.dayCursor, widths[1]),
	})
	return components.MetricCardRow(a.overviewMetrics(), cw) + "\n" + charts
}

// chartCard wraps the live chart on surface id in a card. active is the
// inspected point, -1 for none.
func (a App) chartCard(id string, active, outerWidth int) string {
	tc := a.liveChart(id)
	if tc == nil {
		t := theme.Active
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		return components.ContentCard("", dim.Render("No chart drawn"), outerWidth)
	}
	return components.ContentCard("", tc.View(active), outerWidth)
}
