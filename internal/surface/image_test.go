package surface

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/summary"
)

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" PNG "); err != nil || f != FormatPNG {
		t.Fatalf("ParseFormat(PNG) = %q, %v", f, err)
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatal("expected error for gif")
	}
	if FormatSVG.ContentType() != "image/svg+xml" {
		t.Fatalf("svg content type = %q", FormatSVG.ContentType())
	}
}

func TestImageTitleDropsPictographs(t *testing.T) {
	got := imageTitle("🏷️ Spending by Category (Last 30 Days)")
	if got != "Spending by Category (Last 30 Days)" {
		t.Fatalf("imageTitle = %q", got)
	}
	got = imageTitle("📊 Daily Spending Trend (Last 7 Days)")
	if got != "Daily Spending Trend (Last 7 Days)" {
		t.Fatalf("imageTitle = %q", got)
	}
}

func TestImageDrawSVGInMemory(t *testing.T) {
	s := NewImage("categoryChart", FormatSVG, WithSize(600, 400))
	inst, err := s.Draw(chart.Category(sample()))
	if err != nil {
		t.Fatal(err)
	}
	ic := inst.(*ImageChart)
	data := ic.Bytes()
	if !bytes.Contains(data, []byte("<svg")) {
		t.Fatalf("not an svg: %.60q", data)
	}
	if !bytes.Contains(data, []byte("Food")) {
		t.Fatal("legend label missing from svg")
	}
	if ic.Path() != "" {
		t.Fatalf("in-memory chart has path %q", ic.Path())
	}
	if err := ic.Destroy(); err != nil {
		t.Fatal(err)
	}
	if ic.Bytes() != nil {
		t.Fatal("destroyed chart should drop its bytes")
	}
}

func TestImageDrawPNGFile(t *testing.T) {
	dir := t.TempDir()
	s := NewImage("dailyChart", FormatPNG, WithDir(dir))
	inst, err := s.Draw(chart.Daily(sample()))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "dailyChart.png")
	if inst.(*ImageChart).Path() != path {
		t.Fatalf("path = %q, want %q", inst.(*ImageChart).Path(), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("file is not a png")
	}

	if err := inst.Destroy(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should be removed on destroy, stat err = %v", err)
	}
}

func TestImageRedrawKeepsOneFile(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(NewImage("dailyChart", FormatSVG, WithDir(dir)))

	if _, err := r.Draw("dailyChart", chart.Daily(sample())); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Draw("dailyChart", chart.Daily(sample())); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "dailyChart.svg" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("dir entries = %v, want [dailyChart.svg]", names)
	}
}

func TestImageEmptyAndZeroData(t *testing.T) {
	empty := summary.Response{Days: 7}
	zero := summary.Response{
		Days:       7,
		Categories: []summary.CategoryTotal{{Category: "Food", Total: 0}},
		Daily:      []summary.DailyTotal{{Date: "2024-01-05", Total: 0}},
	}
	for _, resp := range []summary.Response{empty, zero} {
		for _, cfg := range []chart.Config{chart.Category(resp), chart.Daily(resp)} {
			data, err := renderImage(cfg, FormatSVG, 400, 300)
			if err != nil {
				t.Fatalf("%s with %d points: %v", cfg.Kind, cfg.Len(), err)
			}
			if !strings.Contains(string(data), "<svg") {
				t.Fatalf("%s: not an svg", cfg.Kind)
			}
		}
	}
}

func TestLegendRowsWrap(t *testing.T) {
	measure := func(s string) int { return len(s) * 10 }
	rows := legendRows([]string{"Food", "Travel", "Rent", "Utilities"}, 120, measure)
	if len(rows) < 2 {
		t.Fatalf("rows = %v, want wrapping", rows)
	}
	total := 0
	for _, r := range rows {
		total += len(r)
	}
	if total != 4 {
		t.Fatalf("rows lost labels: %v", rows)
	}
}
