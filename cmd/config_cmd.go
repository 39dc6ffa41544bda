package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/spendview/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default days:    %d\n", cfg.General.DefaultDays)
	fmt.Printf("    Server URL:      %s", config.GetServerURL(cfg))
	if os.Getenv(config.EnvServer) != "" {
		fmt.Printf("  (from %s)", config.EnvServer)
	}
	fmt.Println()
	fmt.Printf("    Currency symbol: %s\n", cfg.General.CurrencySymbol)
	fmt.Println()

	fmt.Println("  [Server]")
	if cookie := config.GetSessionCookie(cfg); cookie != "" {
		fmt.Printf("    Session cookie: %s\n", maskSecret(cookie))
	} else {
		fmt.Println("    Session cookie: not configured")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Export]")
	fmt.Printf("    Format: %s\n", cfg.Export.Format)
	fmt.Printf("    Dir:    %s\n", cfg.Export.Dir)
	fmt.Printf("    Size:   %dx%d\n", cfg.Export.Width, cfg.Export.Height)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:      %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `spendview setup` to reconfigure.")
	return nil
}
