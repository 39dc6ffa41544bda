package surface

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/theirongolddev/spendview/internal/chart"
)

const (
	titleFontSize  = 14.0
	legendFontSize = 10.0
	legendRadius   = 5.0
	legendRowH     = 20
	legendItemGap  = 18
	titleBand      = 44
	smoothSteps    = 12
	// approximate glyph advance at legendFontSize, for layout before rendering
	legendCharW = 6
)

func renderImage(cfg chart.Config, f Format, width, height int) ([]byte, error) {
	rp := gochart.SVG
	if f == FormatPNG {
		rp = gochart.PNG
	}

	var buf bytes.Buffer
	var err error
	switch cfg.Kind {
	case chart.Doughnut:
		d := donutChart(cfg, width, height)
		err = d.Render(rp, &buf)
	case chart.Line:
		l := lineChart(cfg, width, height)
		err = l.Render(rp, &buf)
	default:
		return nil, fmt.Errorf("surface: unsupported chart kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("surface: render %s: %w", cfg.Kind, err)
	}
	return buf.Bytes(), nil
}

func drawingColor(c chart.Color) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.Alpha8()}
}

// imageTitle drops pictographs the embedded font has no glyphs for.
func imageTitle(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.So, r) || r == '\uFE0F' || r == '\u200D' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func donutChart(cfg chart.Config, width, height int) gochart.DonutChart {
	var values []gochart.Value
	if cfg.Sum() > 0 {
		for i, v := range cfg.Dataset.Values {
			if v <= 0 {
				continue
			}
			values = append(values, gochart.Value{
				Value: v,
				Style: gochart.Style{FillColor: drawingColor(cfg.SliceColor(i))},
			})
		}
	}
	if len(values) == 0 {
		values = []gochart.Value{{
			Value: 1,
			Label: "No data",
			Style: gochart.Style{FillColor: drawingColor(chart.GridLine), FontColor: drawingColor(chart.Slate)},
		}}
	}

	rows := 0
	if cfg.Legend.Display {
		rows = len(legendRows(cfg.Labels, width-40, func(s string) int { return len([]rune(s)) * legendCharW }))
	}

	return gochart.DonutChart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			FillColor: drawingColor(chart.Paper),
			Padding: gochart.Box{
				Top:    titleBand,
				Left:   20,
				Right:  20,
				Bottom: 16 + rows*legendRowH,
			},
		},
		Canvas: gochart.Style{FillColor: drawingColor(chart.Paper)},
		SliceStyle: gochart.Style{
			StrokeColor: drawingColor(cfg.Dataset.BorderColor),
			StrokeWidth: cfg.Dataset.BorderWidth,
		},
		Values: values,
		Elements: []gochart.Renderable{
			titleElement(cfg, width),
			legendElement(cfg, width),
		},
	}
}

// titleElement centers the title above the ring.
func titleElement(cfg chart.Config, width int) gochart.Renderable {
	return func(r gochart.Renderer, box gochart.Box, defaults gochart.Style) {
		title := imageTitle(cfg.Title)
		if title == "" {
			return
		}
		r.SetFont(defaults.GetFont())
		r.SetFontSize(titleFontSize)
		r.SetFontColor(drawingColor(cfg.TitleColor))
		tb := r.MeasureText(title)
		r.Text(title, (width-tb.Width())/2, titleBand/2+tb.Height()/2)
	}
}

// legendElement draws a circle marker and label per slice, wrapped and
// centered beneath the ring.
func legendElement(cfg chart.Config, width int) gochart.Renderable {
	return func(r gochart.Renderer, box gochart.Box, defaults gochart.Style) {
		if !cfg.Legend.Display || len(cfg.Labels) == 0 {
			return
		}
		r.SetFont(defaults.GetFont())
		r.SetFontSize(legendFontSize)
		measure := func(s string) int { return r.MeasureText(s).Width() }

		y := box.Bottom + legendRowH
		index := 0
		for _, row := range legendRows(cfg.Labels, width-40, measure) {
			rowW := 0
			for i, label := range row {
				if i > 0 {
					rowW += legendItemGap
				}
				rowW += legendItemWidth(label, measure)
			}

			x := (width - rowW) / 2
			for _, label := range row {
				c := drawingColor(cfg.SliceColor(index))
				textH := r.MeasureText(label).Height()

				r.SetFillColor(c)
				r.SetStrokeColor(c)
				r.SetStrokeWidth(1)
				r.Circle(legendRadius, x+int(legendRadius), y-textH/2)
				r.FillStroke()

				r.SetFontColor(drawingColor(cfg.Legend.Color))
				r.Text(label, x+int(2*legendRadius)+6, y)

				x += legendItemWidth(label, measure) + legendItemGap
				index++
			}
			y += legendRowH
		}
	}
}

func legendItemWidth(label string, measure func(string) int) int {
	return int(2*legendRadius) + 6 + measure(label)
}

// legendRows wraps labels into rows no wider than maxW.
func legendRows(labels []string, maxW int, measure func(string) int) [][]string {
	var rows [][]string
	var row []string
	rowW := 0
	for _, l := range labels {
		w := legendItemWidth(l, measure)
		if len(row) > 0 && rowW+legendItemGap+w > maxW {
			rows = append(rows, row)
			row, rowW = nil, 0
		}
		if len(row) > 0 {
			rowW += legendItemGap
		}
		row = append(row, l)
		rowW += w
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func lineChart(cfg chart.Config, width, height int) gochart.Chart {
	n := cfg.Len()
	ds := cfg.Dataset

	ceiling, step := chart.ValueScale(cfg.Max(), 5)
	var yTicks []gochart.Tick
	var grid []gochart.GridLine
	for v := 0.0; v <= ceiling+step/2; v += step {
		yTicks = append(yTicks, gochart.Tick{Value: v, Label: chart.YTick(v)})
		grid = append(grid, gochart.GridLine{Value: v})
	}

	plotW := width - 120
	stride := chart.LabelStride(n, max(1, plotW/40))
	var xTicks []gochart.Tick
	labelW := 0
	for i := 0; i < n; i += stride {
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		xTicks = append(xTicks, gochart.Tick{Value: float64(i), Label: label})
		labelW += len([]rune(label))*legendCharW + 8
	}

	xStyle := gochart.Style{
		FontColor:   drawingColor(cfg.X.TickColor),
		StrokeColor: drawingColor(cfg.Y.GridColor),
	}
	// Tilt labels once they no longer fit side by side, up to the axis maximum.
	if labelW > plotW && cfg.X.MaxRotation > 0 {
		xStyle.TextRotationDegrees = cfg.X.MaxRotation
	}

	return gochart.Chart{
		Title: imageTitle(cfg.Title),
		TitleStyle: gochart.Style{
			FontSize:  titleFontSize,
			FontColor: drawingColor(cfg.TitleColor),
		},
		Width:  width,
		Height: height,
		Background: gochart.Style{
			FillColor: drawingColor(chart.Paper),
			Padding:   gochart.Box{Top: titleBand + 10, Left: 20, Right: 30, Bottom: 20},
		},
		Canvas: gochart.Style{FillColor: drawingColor(chart.Paper)},
		XAxis: gochart.XAxis{
			Style: xStyle,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: math.Max(float64(n)-0.5, 0.5)},
			Ticks: xTicks,
		},
		YAxis: gochart.YAxis{
			Style: gochart.Style{
				FontColor:   drawingColor(cfg.Y.TickColor),
				StrokeColor: drawingColor(cfg.Y.GridColor),
			},
			Range:          &gochart.ContinuousRange{Min: 0, Max: ceiling},
			Ticks:          yTicks,
			GridLines:      grid,
			GridMajorStyle: gochart.Style{StrokeColor: drawingColor(cfg.Y.GridColor), StrokeWidth: 1},
		},
		Series: lineSeries(ds, width, height),
	}
}

// lineSeries returns the smoothed stroke and a separate point series. go-chart
// needs at least one series and two samples, so empty and single-point data
// are padded.
func lineSeries(ds chart.Dataset, width, height int) []gochart.Series {
	n := len(ds.Values)

	points := gochart.Style{
		StrokeColor: drawing.ColorTransparent,
		StrokeWidth: 1,
		DotColor:    drawingColor(ds.PointColor),
		DotWidth:    ds.PointRadius,
	}

	switch n {
	case 0:
		return []gochart.Series{gochart.ContinuousSeries{
			Name:    ds.Label,
			Style:   gochart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
			XValues: []float64{-0.5, 0.5},
			YValues: []float64{0, 0},
		}}
	case 1:
		return []gochart.Series{gochart.ContinuousSeries{
			Name:    ds.Label,
			Style:   points,
			XValues: []float64{0, 0},
			YValues: []float64{ds.Values[0], ds.Values[0]},
		}}
	}

	stroke := gochart.Style{
		StrokeColor: drawingColor(ds.BorderColor),
		StrokeWidth: ds.BorderWidth,
	}
	if ds.Fill {
		stroke.FillColor = drawingColor(ds.FillColor)
	}

	aspect := float64(max(1, height-100)) / float64(max(1, width-120))
	xs, ys := chart.SmoothSeries(ds.Values, ds.Tension, smoothSteps, aspect)

	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}

	return []gochart.Series{
		gochart.ContinuousSeries{Name: ds.Label, Style: stroke, XValues: xs, YValues: ys},
		gochart.ContinuousSeries{Name: ds.Label + " points", Style: points, XValues: idx, YValues: ds.Values},
	}
}
