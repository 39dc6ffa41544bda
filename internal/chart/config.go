// Package chart builds the chart configurations for the spending summary.
// Nothing here draws; surfaces in internal/surface turn a Config into pixels or cells.
package chart

// Kind selects how a Config is drawn.
type Kind string

const (
	Doughnut Kind = "doughnut"
	Line     Kind = "line"
)

// Config is a complete, renderer-independent chart description.
type Config struct {
	Kind   Kind
	Title  string
	Window int // requested day window, echoed in the title

	// Labels are the category names or the short date labels.
	Labels []string
	// Dates holds the raw ISO dates for line charts, parallel to Labels.
	Dates []string

	Dataset Dataset
	Legend  Legend
	Tooltip TooltipStyle
	X       Axis
	Y       Axis

	// Cutout is the inner radius of a doughnut as a fraction of the outer radius.
	Cutout float64

	TitleColor Color
	TitleSize  float64
}

// Dataset is the single data series of a chart.
type Dataset struct {
	Label  string
	Values []float64
	// Colors are per-slice fills for doughnuts.
	Colors []Color

	BorderColor      Color
	BorderWidth      float64
	HoverBorderColor Color
	HoverBorderWidth float64

	Fill      bool
	FillColor Color
	Tension   float64

	PointColor       Color
	PointBorderColor Color
	PointBorderWidth float64
	PointRadius      float64
}

// Position is where a legend sits relative to the plot.
type Position string

const (
	Top    Position = "top"
	Bottom Position = "bottom"
)

// Legend controls the series key.
type Legend struct {
	Display    bool
	Position   Position
	PointStyle string // "circle" draws round markers instead of boxes
	Color      Color
}

// TooltipStyle is the look of the hover box. Its text comes from Config.TooltipTitle and TooltipLabel.
type TooltipStyle struct {
	Background   Color
	Text         Color
	Border       Color
	ShowSwatches bool
	CornerRadius float64
	// IndexMode picks the point nearest the cursor column without requiring
	// the cursor to touch it.
	IndexMode bool
}

// Axis is a cartesian axis. Zero value means "not drawn" for doughnuts.
type Axis struct {
	Display     bool
	BeginAtZero bool
	Grid        bool
	GridColor   Color
	TickColor   Color
	MinRotation float64
	MaxRotation float64
}

// Len returns the number of data points.
func (c Config) Len() int {
	return len(c.Dataset.Values)
}

// Sum returns the total of all values.
func (c Config) Sum() float64 {
	var sum float64
	for _, v := range c.Dataset.Values {
		sum += v
	}
	return sum
}

// Max returns the largest value, or 0 for an empty chart.
func (c Config) Max() float64 {
	var m float64
	for i, v := range c.Dataset.Values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// SliceColor returns the fill for point i.
func (c Config) SliceColor(i int) Color {
	if i >= 0 && i < len(c.Dataset.Colors) {
		return c.Dataset.Colors[i]
	}
	return ColorAt(i)
}

// TooltipTitle returns the hover title for point i.
func (c Config) TooltipTitle(i int) string {
	if i < 0 || i >= c.Len() {
		return ""
	}
	switch c.Kind {
	case Line:
		if i < len(c.Dates) {
			return DailyTooltipTitle(c.Dates[i])
		}
		return c.Labels[i]
	default:
		return ""
	}
}

// TooltipLabel returns the hover body line for point i.
func (c Config) TooltipLabel(i int) string {
	if i < 0 || i >= c.Len() {
		return ""
	}
	v := c.Dataset.Values[i]
	switch c.Kind {
	case Doughnut:
		return CategoryTooltip(c.label(i), v, c.Sum())
	case Line:
		return DailyTooltipLabel(v)
	default:
		return ""
	}
}

func (c Config) label(i int) string {
	if i < len(c.Labels) {
		return c.Labels[i]
	}
	return ""
}
