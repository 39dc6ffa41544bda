// Package cmd implements the spendview CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/log"
	"github.com/theirongolddev/spendview/internal/render"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/surface"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var (
	flagDays     int
	flagServer   string
	flagQuiet    bool
	flagLogLevel string
	flagWidth    int
)

var rootCmd = &cobra.Command{
	Use:   "spendview",
	Short: "Spending charts from your expense server",
	Long: "Fetch the spending summary from an expense server and draw the\n" +
		"category doughnut and the daily trend line.",
	RunE:          runCharts,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.RenderError("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "Time window in days (default from config, 30)")
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "Expense server URL (overrides config and "+config.EnvServer+")")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.Flags().IntVarP(&flagWidth, "width", "w", 0, "Chart width in columns (default: terminal width)")
}

// loadSettings reads the config file and applies the process-wide pieces of
// it: currency symbol and theme.
func loadSettings() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.RenderWarning(fmt.Sprintf("Config error, using defaults: %v", err)))
	}
	if cfg.General.CurrencySymbol != "" {
		cli.CurrencySymbol = cfg.General.CurrencySymbol
	}
	theme.SetActive(cfg.Appearance.Theme)
	return cfg
}

// newLogger builds the process logger from --log-level. It carries no
// component tag; each package adds its own.
func newLogger(out io.Writer) (*slog.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, err
	}
	lc := log.DefaultConfig()
	lc.Level = level
	lc.Component = ""
	lc.Output = out
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger, nil
}

// resolveDays picks --days, then the configured default.
func resolveDays(cfg config.Config) int {
	if flagDays > 0 {
		return flagDays
	}
	return cfg.General.DefaultDays
}

// resolveServer picks --server, then SPENDVIEW_SERVER, then the config file.
func resolveServer(cfg config.Config) string {
	if flagServer != "" {
		return flagServer
	}
	return config.GetServerURL(cfg)
}

// newRenderer wires the summary client and a registry holding surfaces.
func newRenderer(cfg config.Config, logger *slog.Logger, surfaces ...surface.Surface) (*render.Renderer, error) {
	var opts []summary.Option
	if cookie := config.GetSessionCookie(cfg); cookie != "" {
		opts = append(opts, summary.WithSessionCookie(cookie))
	}
	client, err := summary.NewClient(resolveServer(cfg), opts...)
	if err != nil {
		return nil, err
	}

	reg := surface.NewRegistry(surfaces...)
	reg.SetLogger(logger)
	return render.New(client, reg, render.WithLogger(logger)), nil
}

// signalContext is canceled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// terminalWidth returns --width, the stdout width, or 100 when stdout is not
// a terminal.
func terminalWidth() int {
	if flagWidth > 0 {
		return flagWidth
	}
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return min(w, 140)
	}
	return 100
}

func runCharts(_ *cobra.Command, _ []string) error {
	cfg := loadSettings()
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	days := resolveDays(cfg)
	width := terminalWidth()
	catTerm := surface.NewTerminal(render.CategorySurface, width, width/4+6, surface.WithOutput(os.Stdout))
	dayTerm := surface.NewTerminal(render.DailySurface, width, width/5+6, surface.WithOutput(os.Stdout))

	r, err := newRenderer(cfg, logger, catTerm, dayTerm)
	if err != nil {
		return err
	}
	defer func() { _ = r.Registry().Close() }()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Fetching %s of spending from %s...\n", cli.FormatDays(days), resolveServer(cfg))
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(cli.RenderTitle("spendview · Last " + cli.FormatDays(days)))
	res, err := r.DrawCharts(ctx, days)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(categoryTable(res.Summary))
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Drawn in %dms\n", res.Took.Milliseconds())
	}
	return nil
}

// categoryTable lists each category with its amount and share.
func categoryTable(resp summary.Response) string {
	labels, values := resp.CategoryValues()
	var sum float64
	for _, v := range values {
		sum += v
	}

	rows := make([][]string, 0, len(labels))
	for i, l := range labels {
		rows = append(rows, []string{l, cli.FormatCurrency(values[i]), cli.FormatShare(values[i], sum) + "%"})
	}
	if len(rows) == 0 {
		return cli.RenderMuted("  No spending in this window.")
	}

	return cli.RenderTable(cli.Table{
		Title:   "Categories (" + cli.FormatDays(resp.Days) + ")",
		Headers: []string{"Category", "Amount", "Share"},
		Rows:    rows,
		Footer:  []string{"Total", cli.FormatCurrency(resp.Total()), ""},
	})
}
