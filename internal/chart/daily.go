package chart

import (
	"fmt"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/summary"
)

// LineTension is the curve smoothing applied to the daily trend.
const LineTension = 0.4

// Daily builds the daily spending trend line.
func Daily(resp summary.Response) Config {
	dates, values := resp.DailyValues()

	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = cli.ShortDate(d)
	}

	return Config{
		Kind:   Line,
		Title:  fmt.Sprintf("📊 Daily Spending Trend (Last %d Days)", resp.Days),
		Window: resp.Days,
		Labels: labels,
		Dates:  dates,
		Dataset: Dataset{
			Label:            "Daily Spending",
			Values:           values,
			Fill:             true,
			FillColor:        RoseWash,
			Tension:          LineTension,
			BorderColor:      Rose,
			BorderWidth:      3,
			HoverBorderColor: Ink,
			HoverBorderWidth: 3,
			PointColor:       Ink,
			PointBorderColor: Rose,
			PointBorderWidth: 2,
			PointRadius:      6,
		},
		Legend: Legend{Display: false},
		Tooltip: TooltipStyle{
			Background:   TooltipBg,
			Text:         Paper,
			Border:       Rose,
			CornerRadius: 8,
			IndexMode:    true,
		},
		X: Axis{
			Display:     true,
			TickColor:   Slate,
			MinRotation: 0,
			MaxRotation: 45,
		},
		Y: Axis{
			Display:     true,
			BeginAtZero: true,
			Grid:        true,
			GridColor:   GridLine,
			TickColor:   Slate,
		},
		TitleColor: Ink,
		TitleSize:  16,
	}
}

// DailyTooltipTitle renders the hovered day in full, e.g. "Friday, January 5, 2024".
func DailyTooltipTitle(date string) string {
	return cli.LongDate(date)
}

// DailyTooltipLabel renders the hovered day's total.
func DailyTooltipLabel(value float64) string {
	return "💰 " + cli.FormatCurrency(value)
}

// YTick renders a value-axis tick label.
func YTick(value float64) string {
	return cli.FormatCurrency(value)
}
