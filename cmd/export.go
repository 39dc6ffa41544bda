package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/spendview/internal/cli"
	"github.com/theirongolddev/spendview/internal/render"
	"github.com/theirongolddev/spendview/internal/surface"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOut    string
	flagExportWidth  int
	flagExportHeight int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Draw both charts to SVG or PNG files",
	Long: "Draw the category and daily charts to image files named after their\n" +
		"surfaces, e.g. charts/categoryChart.svg. Existing files are replaced.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "", "Image format: svg or png (default from config)")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output directory (default from config)")
	exportCmd.Flags().IntVar(&flagExportWidth, "width", 0, "Image width in pixels (default from config)")
	exportCmd.Flags().IntVar(&flagExportHeight, "height", 0, "Image height in pixels (default from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg := loadSettings()
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	ec := cfg.Export
	if flagExportFormat != "" {
		ec.Format = flagExportFormat
	}
	if flagExportOut != "" {
		ec.Dir = flagExportOut
	}
	if flagExportWidth > 0 {
		ec.Width = flagExportWidth
	}
	if flagExportHeight > 0 {
		ec.Height = flagExportHeight
	}

	format, err := surface.ParseFormat(ec.Format)
	if err != nil {
		return err
	}
	opts := []surface.ImageOption{surface.WithDir(ec.Dir), surface.WithSize(ec.Width, ec.Height)}
	cat := surface.NewImage(render.CategorySurface, format, opts...)
	day := surface.NewImage(render.DailySurface, format, opts...)

	// Files outlive the process, so the registry is not closed here.
	r, err := newRenderer(cfg, logger, cat, day)
	if err != nil {
		return err
	}

	days := resolveDays(cfg)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Fetching %s of spending from %s...\n", cli.FormatDays(days), resolveServer(cfg))
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := r.DrawCharts(ctx, days)
	if err != nil {
		return err
	}

	for _, inst := range []surface.Instance{res.Category, res.Daily} {
		if ic, ok := inst.(*surface.ImageChart); ok {
			fmt.Println(ic.Path())
		}
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %dx%d %s charts in %dms\n", ec.Width, ec.Height, format, res.Took.Milliseconds())
	}
	return nil
}
