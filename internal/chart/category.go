package chart

import (
	"fmt"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/summary"
)

// Category builds the spending-by-category doughnut.
// Slices keep the server's order; nothing is sorted or merged.
func Category(resp summary.Response) Config {
	labels, values := resp.CategoryValues()

	return Config{
		Kind:   Doughnut,
		Title:  fmt.Sprintf("🏷️ Spending by Category (Last %d Days)", resp.Days),
		Window: resp.Days,
		Labels: labels,
		Dataset: Dataset{
			Values:           values,
			Colors:           Colors(len(values)),
			BorderColor:      Paper,
			BorderWidth:      2,
			HoverBorderColor: Ink,
			HoverBorderWidth: 3,
		},
		Legend: Legend{
			Display:    true,
			Position:   Bottom,
			PointStyle: "circle",
			Color:      Ink,
		},
		Tooltip: TooltipStyle{
			Background:   TooltipBg,
			Text:         Paper,
			Border:       Rose,
			ShowSwatches: true,
			CornerRadius: 8,
		},
		Cutout:     0.5,
		TitleColor: Ink,
		TitleSize:  16,
	}
}

// CategoryTooltip renders "Food: ₹300.00 (75.0%)".
// sum is the total of every slice; a zero sum shows a 0 share.
func CategoryTooltip(label string, value, sum float64) string {
	return fmt.Sprintf("%s: %s (%s%%)", label, cli.FormatCurrency(value), cli.FormatShare(value, sum))
}
