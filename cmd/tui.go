package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/spendview/internal/log"
	"github.com/theirongolddev/spendview/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg := loadSettings()

	// Logs on stderr would tear the alt screen, so they are dropped unless
	// --log-level was given.
	logger := log.Discard()
	if cmd.Flags().Changed("log-level") {
		var err error
		if logger, err = newLogger(os.Stderr); err != nil {
			return err
		}
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	r, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = r.Registry().Close() }()

	app, err := tui.NewApp(r, resolveDays(cfg))
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
