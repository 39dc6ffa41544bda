package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/log"
	"github.com/theirongolddev/spendview/internal/summary"

	"github.com/charmbracelet/x/ansi"
)

func TestCategoryTable(t *testing.T) {
	out := ansi.Strip(categoryTable(summary.Response{
		Days: 7,
		Categories: []summary.CategoryTotal{
			{Category: "Food", Total: 300},
			{Category: "Travel", Total: 100},
		},
	}))
	for _, want := range []string{"Categories (7 days)", "Food", "₹300.00", "75.0%", "25.0%", "Total", "₹400.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestCategoryTableEmpty(t *testing.T) {
	out := ansi.Strip(categoryTable(summary.Response{Days: 30}))
	if !strings.Contains(out, "No spending") {
		t.Fatalf("empty table = %q", out)
	}
}

func TestResolveDays(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.DefaultDays = 90

	flagDays = 0
	if got := resolveDays(cfg); got != 90 {
		t.Fatalf("resolveDays() = %d, want 90 from config", got)
	}
	flagDays = 7
	defer func() { flagDays = 0 }()
	if got := resolveDays(cfg); got != 7 {
		t.Fatalf("resolveDays() = %d, want 7 from flag", got)
	}
}

func TestResolveServerPrefersFlag(t *testing.T) {
	t.Setenv(config.EnvServer, "http://env:5000")
	cfg := config.DefaultConfig()

	if got := resolveServer(cfg); got != "http://env:5000" {
		t.Fatalf("resolveServer() = %q, want env value", got)
	}
	flagServer = "http://flag:5000"
	defer func() { flagServer = "" }()
	if got := resolveServer(cfg); got != "http://flag:5000" {
		t.Fatalf("resolveServer() = %q, want flag value", got)
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("filterDetachArg() = %v, want %v", got, want)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret("session=abcdefghijklmnop"); got != "session=...mnop" {
		t.Fatalf("maskSecret() = %q", got)
	}
	if got := maskSecret("abc"); got != "****" {
		t.Fatalf("maskSecret() = %q, want ****", got)
	}
}

func TestNewLoggerLeavesComponentToPackages(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	base, err := newLogger(&buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.WithComponent(base, log.ComponentRender).Warn("fetch failed")

	out := buf.String()
	if n := strings.Count(out, "component="); n != 1 {
		t.Fatalf("component attrs = %d, want 1: %q", n, out)
	}
	if !strings.Contains(out, "component=render") {
		t.Fatalf("output = %q, want component=render", out)
	}
}
