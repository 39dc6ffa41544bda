package components

import (
	"math"
	"strings"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// minCellWash is the weakest fill alpha still visible in a terminal cell.
const minCellWash = 0.35

// Color converts a chart color to a terminal color. Translucent colors are
// blended onto the active theme surface.
func Color(c chart.Color) lipgloss.Color {
	if c.A >= 1 {
		return lipgloss.Color(c.Hex())
	}
	bg, err := colorful.Hex(string(theme.Active.Surface))
	if err != nil {
		// ANSI-indexed themes have no RGB surface to blend with.
		return lipgloss.Color(c.Hex())
	}
	fg, _ := colorful.Hex(c.Hex())
	return lipgloss.Color(bg.BlendRgb(fg, c.A).Clamped().Hex())
}

// cellWriter batches runs of equally colored cells into one styled string.
type cellWriter struct {
	b   strings.Builder
	run strings.Builder
	fg  lipgloss.Color
	bg  lipgloss.Color
}

func newCellWriter() *cellWriter {
	return &cellWriter{bg: theme.Active.Surface}
}

func (w *cellWriter) put(fg lipgloss.Color, glyph string) {
	if fg != w.fg && w.run.Len() > 0 {
		w.flush()
	}
	w.fg = fg
	w.run.WriteString(glyph)
}

func (w *cellWriter) flush() {
	if w.run.Len() == 0 {
		return
	}
	style := lipgloss.NewStyle().Background(w.bg)
	if w.fg != "" {
		style = style.Foreground(w.fg)
	}
	w.b.WriteString(style.Render(w.run.String()))
	w.run.Reset()
}

func (w *cellWriter) newline() {
	w.flush()
	w.b.WriteString("\n")
}

func (w *cellWriter) String() string {
	w.flush()
	return w.b.String()
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx]) //nolint:gosec // bounds checked above
	}

	return style.Render(buf.String())
}

// Doughnut renders cfg as a ring of palette-colored cells inside a width x
// height box, legend included. active highlights one slice (-1 for none).
func Doughnut(cfg chart.Config, width, height, active int) string {
	t := theme.Active

	legend := ""
	if cfg.Legend.Display {
		legend = Legend(cfg, width)
	}
	legendH := 0
	if legend != "" {
		legendH = lipgloss.Height(legend) + 1
	}

	rows := height - legendH
	if rows < 3 {
		rows = 3
	}
	cols := rows * 2 // terminal cells are about twice as tall as wide
	if cols > width {
		cols = width
		rows = max(3, cols/2)
	}

	ring := lipgloss.PlaceHorizontal(width, lipgloss.Center, doughnutRing(cfg, cols, rows, active),
		lipgloss.WithWhitespaceBackground(t.Surface))

	if legend == "" {
		return ring
	}
	if cfg.Legend.Position == chart.Top {
		return legend + "\n\n" + ring
	}
	return ring + "\n\n" + legend
}

func doughnutRing(cfg chart.Config, cols, rows, active int) string {
	t := theme.Active
	sum := cfg.Sum()

	bounds := make([]float64, cfg.Len())
	acc := 0.0
	for i, v := range cfg.Dataset.Values {
		if sum > 0 {
			acc += v / sum
		}
		bounds[i] = acc
	}

	w := newCellWriter()
	for r := 0; r < rows; r++ {
		if r > 0 {
			w.newline()
		}
		for c := 0; c < cols; c++ {
			dx := (float64(c)+0.5)/float64(cols)*2 - 1
			dy := (float64(r)+0.5)/float64(rows)*2 - 1
			d := math.Hypot(dx, dy)
			if d > 1 || d < cfg.Cutout {
				w.put("", " ")
				continue
			}
			if sum <= 0 {
				w.put(t.TextDim, "░")
				continue
			}

			// Clockwise from twelve o'clock.
			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			i := sliceAt(bounds, angle/(2*math.Pi))
			glyph := "█"
			if active >= 0 && i != active {
				glyph = "▓"
			}
			w.put(Color(cfg.SliceColor(i)), glyph)
		}
	}
	return w.String()
}

// sliceAt returns the slice whose cumulative share bound first exceeds f.
func sliceAt(bounds []float64, f float64) int {
	for i, b := range bounds {
		if f < b {
			return i
		}
	}
	return len(bounds) - 1
}

// Legend renders "● label" markers wrapped to width.
func Legend(cfg chart.Config, width int) string {
	if len(cfg.Labels) == 0 {
		return ""
	}
	t := theme.Active
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	gapStyle := lipgloss.NewStyle().Background(t.Surface)

	marker := "■"
	if cfg.Legend.PointStyle == "circle" {
		marker = "●"
	}

	var lines []string
	var line strings.Builder
	lineW := 0
	for i, label := range cfg.Labels {
		markerStyle := lipgloss.NewStyle().Foreground(Color(cfg.SliceColor(i))).Background(t.Surface)
		item := markerStyle.Render(marker) + textStyle.Render(" "+label)
		itemW := lipgloss.Width(item)

		if lineW > 0 && lineW+2+itemW > width {
			lines = append(lines, line.String())
			line.Reset()
			lineW = 0
		}
		if lineW > 0 {
			line.WriteString(gapStyle.Render("  "))
			lineW += 2
		}
		line.WriteString(item)
		lineW += itemW
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, l, lipgloss.WithWhitespaceBackground(t.Surface))
	}
	return strings.Join(lines, "\n")
}

// Tooltip renders the hover box for point i of cfg, or "" when i is out of range.
func Tooltip(cfg chart.Config, i int) string {
	if i < 0 || i >= cfg.Len() {
		return ""
	}
	tt := cfg.Tooltip
	bg := Color(tt.Background)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Color(tt.Border)).
		BorderBackground(theme.Active.Surface).
		Background(bg).
		Foreground(Color(tt.Text)).
		Padding(0, 1)

	var lines []string
	if title := cfg.TooltipTitle(i); title != "" {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Background(bg).Foreground(Color(tt.Text)).Render(title))
	}
	body := cfg.TooltipLabel(i)
	if tt.ShowSwatches {
		swatch := lipgloss.NewStyle().Foreground(Color(cfg.SliceColor(i))).Background(bg).Render("■ ")
		body = swatch + lipgloss.NewStyle().Background(bg).Foreground(Color(tt.Text)).Render(body)
	}
	lines = append(lines, body)

	return box.Render(strings.Join(lines, "\n"))
}

// LineChart renders cfg as a smoothed, optionally filled line inside a width x
// height box. The value axis starts at zero and is labelled with chart.YTick.
// active marks one point and appends its tooltip (-1 for none).
func LineChart(cfg chart.Config, width, height, active int) string {
	t := theme.Active
	values := cfg.Dataset.Values
	n := len(values)

	plotH := height - 2 // x axis + labels
	if plotH < 2 {
		plotH = 2
	}
	ceiling, step := chart.ValueScale(cfg.Max(), max(2, plotH/2))
	numIntervals := int(math.Round(ceiling / step))
	if numIntervals < 1 {
		numIntervals = 1
	}
	rowsPerTick := max(1, plotH/numIntervals)
	chartH := rowsPerTick * numIntervals

	yLabelW := lipgloss.Width(chart.YTick(0))
	tickLabels := make(map[int]string)
	for i := 1; i <= numIntervals; i++ {
		lbl := chart.YTick(step * float64(i))
		tickLabels[i*rowsPerTick] = lbl
		yLabelW = max(yLabelW, lipgloss.Width(lbl))
	}

	chartW := width - yLabelW - 1
	if chartW < 5 {
		chartW = 5
	}

	colVals := make([]float64, chartW)
	drawn := make([]bool, chartW)
	pointAt := make(map[int]int, n)
	switch {
	case n == 1:
		mid := columnOf(0, 1, chartW)
		colVals[mid] = values[0]
		drawn[mid] = true
		pointAt[mid] = 0
	case n > 1:
		aspect := float64(chartH*2) / float64(chartW)
		xs, ys := chart.SmoothSeries(values, cfg.Dataset.Tension, 8, aspect)
		for c := 0; c < chartW; c++ {
			x := float64(c) / float64(chartW-1) * float64(n-1)
			colVals[c] = chart.SampleAt(xs, ys, x)
			drawn[c] = true
		}
		for i := 0; i < n; i++ {
			pointAt[columnOf(i, n, chartW)] = i
		}
	}
	activeCol := -1
	if active >= 0 && active < n {
		activeCol = columnOf(active, n, chartW)
	}

	wash := cfg.Dataset.FillColor
	if wash.A < minCellWash {
		wash.A = minCellWash
	}
	fillColor := Color(wash)
	strokeColor := Color(cfg.Dataset.BorderColor)
	pointColor := Color(cfg.Dataset.PointColor)
	hoverColor := Color(cfg.Dataset.HoverBorderColor)

	blocks := []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	w := newCellWriter()
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		w.flush()
		w.b.WriteString(axisStyle.Render(padLeft(tickLabels[row], yLabelW)))
		w.b.WriteString(axisStyle.Render("│"))

		for c := 0; c < chartW; c++ {
			v := colVals[c]
			switch {
			case !drawn[c]:
				w.put("", " ")
			case v > rowBottom && v <= rowTop && hasPoint(pointAt, c):
				if c == activeCol {
					w.put(hoverColor, "◆")
				} else {
					w.put(pointColor, "●")
				}
			case v >= rowTop:
				if cfg.Dataset.Fill {
					w.put(fillColor, "█")
				} else {
					w.put("", " ")
				}
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = max(1, min(8, idx))
				w.put(strokeColor, blocks[idx])
			case c == activeCol:
				w.put(t.TextDim, "│")
			default:
				w.put("", " ")
			}
		}
		w.newline()
	}
	out := w.String()

	var b strings.Builder
	b.WriteString(out)
	b.WriteString(axisStyle.Render(padLeft(chart.YTick(0), yLabelW)))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", chartW)))

	if n > 0 && len(cfg.Labels) == n {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", yLabelW+1)))
		labelStyle := lipgloss.NewStyle().Foreground(Color(cfg.X.TickColor)).Background(t.Surface)
		b.WriteString(labelStyle.Render(xLabelRow(cfg.Labels, chartW)))
	}

	if tip := Tooltip(cfg, active); tip != "" {
		b.WriteString("\n")
		b.WriteString(tip)
	}
	return b.String()
}

// xLabelRow places labels under their columns, skipping any that would overlap.
// The last label is always attempted so the range end is visible.
func xLabelRow(labels []string, width int) string {
	n := len(labels)
	buf := []rune(strings.Repeat(" ", width))

	stride := chart.LabelStride(n, max(1, width/8))
	lastEnd := -1
	place := func(i int) bool {
		lbl := []rune(labels[i])
		pos := columnOf(i, n, width) - len(lbl)/2
		pos = max(0, min(pos, width-len(lbl)))
		if pos <= lastEnd || pos < 0 {
			return false
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
		return true
	}

	for i := 0; i < n; i += stride {
		place(i)
	}
	if n > 1 && (n-1)%stride != 0 {
		place(n - 1)
	}
	return strings.TrimRight(string(buf), " ")
}

func columnOf(i, n, width int) int {
	if n <= 1 {
		return width / 2
	}
	return int(math.Round(float64(i) / float64(n-1) * float64(width-1)))
}

func hasPoint(points map[int]int, col int) bool {
	_, ok := points[col]
	return ok
}

func padLeft(s string, w int) string {
	if pad := w - lipgloss.Width(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
