package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func sampleResponse() summary.Response {
	return summary.Response{
		Days: 7,
		Categories: []summary.CategoryTotal{
			{Category: "Food", Total: 300},
			{Category: "Travel", Total: 100},
		},
		Daily: []summary.DailyTotal{
			{Date: "2024-01-05", Total: 120},
			{Date: "2024-01-06", Total: 40},
			{Date: "2024-01-07", Total: 240},
		},
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("paper")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI styling in the padding", i)
		}
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Errorf("line %d width = %d, want %d", i, lipgloss.Width(l), w)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	widths := LayoutRow(80, 3)
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != 80 {
		t.Fatalf("sum = %d, want 80", sum)
	}
	if widths[0] != 27 || widths[2] != 26 {
		t.Fatalf("widths = %v, want [27 27 26]", widths)
	}
}

func TestDoughnutRingDimensions(t *testing.T) {
	theme.SetActive("paper")
	cfg := chart.Category(sampleResponse())

	out := Doughnut(cfg, 40, 16, -1)
	if !strings.Contains(out, "Food") || !strings.Contains(out, "Travel") {
		t.Fatalf("legend missing labels:\n%s", out)
	}
	if !strings.Contains(out, "●") {
		t.Fatal("legend should use circle markers")
	}
	for i, l := range strings.Split(out, "\n") {
		if lipgloss.Width(l) > 40 {
			t.Errorf("line %d width %d exceeds 40", i, lipgloss.Width(l))
		}
	}
}

func TestDoughnutZeroSumStillDraws(t *testing.T) {
	theme.SetActive("paper")
	resp := summary.Response{Days: 30, Categories: []summary.CategoryTotal{{Category: "Food", Total: 0}}}
	out := Doughnut(chart.Category(resp), 30, 12, -1)
	if !strings.Contains(out, "░") {
		t.Fatalf("zero-sum ring should render placeholder cells:\n%s", out)
	}
}

func TestSliceAt(t *testing.T) {
	bounds := []float64{0.75, 0.75, 1}
	if got := sliceAt(bounds, 0.1); got != 0 {
		t.Errorf("sliceAt(0.1) = %d, want 0", got)
	}
	if got := sliceAt(bounds, 0.8); got != 2 {
		t.Errorf("sliceAt(0.8) = %d, want 2 (zero slice skipped)", got)
	}
	if got := sliceAt(bounds, 1); got != 2 {
		t.Errorf("sliceAt(1) = %d, want 2", got)
	}
}

func TestLineChartAxes(t *testing.T) {
	theme.SetActive("paper")
	cfg := chart.Daily(sampleResponse())

	out := LineChart(cfg, 60, 14, -1)
	if !strings.Contains(out, "₹0.00") {
		t.Fatalf("missing zero tick:\n%s", out)
	}
	if !strings.Contains(out, "Jan 5") {
		t.Fatalf("missing first x label:\n%s", out)
	}
	if !strings.Contains(out, "●") {
		t.Fatal("missing point markers")
	}
}

func TestLineChartActiveTooltip(t *testing.T) {
	theme.SetActive("paper")
	cfg := chart.Daily(sampleResponse())

	out := LineChart(cfg, 60, 14, 0)
	if !strings.Contains(out, "Friday, January 5, 2024") {
		t.Fatalf("tooltip title missing:\n%s", out)
	}
	if !strings.Contains(out, "💰 ₹120.00") {
		t.Fatalf("tooltip label missing:\n%s", out)
	}
}

func TestLineChartEmpty(t *testing.T) {
	theme.SetActive("paper")
	cfg := chart.Daily(summary.Response{Days: 7})
	out := LineChart(cfg, 40, 10, -1)
	if strings.Contains(out, "●") {
		t.Fatal("empty chart should have no points")
	}
	if Tooltip(cfg, 0) != "" {
		t.Fatal("tooltip for a missing point should be empty")
	}
}

func TestCategoryTooltip(t *testing.T) {
	theme.SetActive("paper")
	cfg := chart.Category(sampleResponse())
	tip := Tooltip(cfg, 0)
	if !strings.Contains(tip, "Food: ₹300.00 (75.0%)") {
		t.Fatalf("tooltip = %q", tip)
	}
	if !strings.Contains(tip, "■") {
		t.Fatal("category tooltip should show a swatch")
	}
}

func TestXLabelRowNoOverlap(t *testing.T) {
	labels := make([]string, 30)
	for i := range labels {
		labels[i] = "Jan 10"
	}
	row := xLabelRow(labels, 40)
	if lipgloss.Width(row) > 40 {
		t.Fatalf("row width %d exceeds 40", lipgloss.Width(row))
	}
	if !strings.HasPrefix(row, "Jan 10") {
		t.Fatalf("first label should start the row: %q", row)
	}
}

func TestColorBlendsTranslucent(t *testing.T) {
	theme.SetActive("paper")
	solid := Color(chart.Rose)
	if string(solid) != "#A67B7B" {
		t.Fatalf("solid = %s, want #A67B7B", solid)
	}
	wash := Color(chart.RoseWash)
	if wash == solid || !strings.HasPrefix(string(wash), "#") {
		t.Fatalf("wash = %s, want a blended hex color", wash)
	}
}

func TestShareBar(t *testing.T) {
	theme.SetActive("paper")
	row := ShareBar("Food", chart.ColorAt(0), 300, 400, 6, 10)
	if !strings.Contains(row, "₹300.00") || !strings.Contains(row, "(75.0%)") {
		t.Fatalf("row = %q", row)
	}
	row = ShareBar("Food", chart.ColorAt(0), 0, 0, 6, 10)
	if !strings.Contains(row, "(0%)") {
		t.Fatalf("zero-sum row = %q", row)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('d') != 2 {
		t.Fatalf("TabIdxByKey('d') = %d, want 2", TabIdxByKey('d'))
	}
	if TabIdxByKey('z') != -1 {
		t.Fatal("unknown key should return -1")
	}
}
