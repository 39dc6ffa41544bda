package surface

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func sample() summary.Response {
	return summary.Response{
		Days: 30,
		Categories: []summary.CategoryTotal{
			{Category: "Food", Total: 300},
			{Category: "Travel", Total: 100},
		},
		Daily: []summary.DailyTotal{
			{Date: "2024-01-05", Total: 120},
			{Date: "2024-01-06", Total: 40},
		},
	}
}

func TestTerminalDrawPrints(t *testing.T) {
	theme.SetActive("paper")
	var out bytes.Buffer
	term := NewTerminal("categoryChart", 60, 20, WithOutput(&out))

	inst, err := term.Draw(chart.Category(sample()))
	if err != nil {
		t.Fatal(err)
	}
	plain := ansi.Strip(out.String())
	if !strings.Contains(plain, "Spending by Category (Last 30 Days)") {
		t.Fatalf("title missing:\n%s", plain)
	}
	if inst.Config().Kind != chart.Doughnut {
		t.Fatalf("kind = %q", inst.Config().Kind)
	}
}

func TestTermChartDestroyBlanks(t *testing.T) {
	theme.SetActive("paper")
	term := NewTerminal("dailyChart", 60, 16)
	inst, err := term.Draw(chart.Daily(sample()))
	if err != nil {
		t.Fatal(err)
	}
	tc := inst.(*TermChart)
	if tc.View(-1) == "" {
		t.Fatal("live chart should render")
	}
	if err := tc.Destroy(); err != nil {
		t.Fatal(err)
	}
	if tc.View(-1) != "" {
		t.Fatal("destroyed chart should render nothing")
	}
	if err := tc.Destroy(); err != nil {
		t.Fatal("second Destroy should be a no-op")
	}
}

func TestTermChartTooltipText(t *testing.T) {
	theme.SetActive("paper")
	term := NewTerminal("dailyChart", 60, 16)
	inst, _ := term.Draw(chart.Daily(sample()))
	got := inst.(*TermChart).TooltipText(0)
	want := []string{"Friday, January 5, 2024", "💰 ₹120.00"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("TooltipText = %q, want %q", got, want)
	}
	if inst.(*TermChart).TooltipText(5) != nil {
		t.Fatal("out of range tooltip should be nil")
	}
}

func TestTerminalTooSmall(t *testing.T) {
	term := NewTerminal("dailyChart", 4, 2)
	if _, err := term.Draw(chart.Daily(sample())); err == nil {
		t.Fatal("expected size error")
	}
	term.Resize(40, 12)
	if _, err := term.Draw(chart.Daily(sample())); err != nil {
		t.Fatalf("after resize: %v", err)
	}
}

func TestTerminalThroughRegistry(t *testing.T) {
	theme.SetActive("paper")
	term := NewTerminal("categoryChart", 50, 18)
	r := NewRegistry(term)

	first, err := r.Draw("categoryChart", chart.Category(sample()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Draw("categoryChart", chart.Category(sample())); err != nil {
		t.Fatal(err)
	}
	if !first.(*TermChart).Destroyed() {
		t.Fatal("redraw should destroy the first terminal chart")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
}
