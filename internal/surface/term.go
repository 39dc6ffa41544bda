package surface

import (
	"fmt"
	"io"
	"sync"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/tui/components"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Terminal draws charts as styled text. With an output writer attached, every
// draw is printed immediately; otherwise callers pull the text through View.
type Terminal struct {
	id string

	mu     sync.Mutex
	width  int
	height int
	out    io.Writer
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithOutput prints each drawn chart to w.
func WithOutput(w io.Writer) TerminalOption {
	return func(t *Terminal) { t.out = w }
}

// NewTerminal returns a terminal surface of width x height cells.
func NewTerminal(id string, width, height int, opts ...TerminalOption) *Terminal {
	t := &Terminal{id: id, width: width, height: height}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Terminal) ID() string { return t.id }

// Resize changes the box used by later draws. Live charts keep their size
// until redrawn.
func (t *Terminal) Resize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.width, t.height = width, height
}

// Size returns the current box.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Draw lays out cfg for the current size.
func (t *Terminal) Draw(cfg chart.Config) (Instance, error) {
	t.mu.Lock()
	w, h, out := t.width, t.height, t.out
	t.mu.Unlock()

	if w < 10 || h < 4 {
		return nil, fmt.Errorf("terminal %s: %dx%d is too small", t.id, w, h)
	}

	c := &TermChart{cfg: cfg, width: w, height: h}
	if out != nil {
		if _, err := fmt.Fprintln(out, c.View(-1)); err != nil {
			return nil, fmt.Errorf("terminal %s: write: %w", t.id, err)
		}
	}
	return c, nil
}

// TermChart is a chart laid out for a terminal box.
type TermChart struct {
	cfg    chart.Config
	width  int
	height int

	mu        sync.Mutex
	destroyed bool
}

func (c *TermChart) Config() chart.Config { return c.cfg }

// Destroy blanks the chart. View returns "" afterwards.
func (c *TermChart) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	return nil
}

// Destroyed reports whether Destroy has been called.
func (c *TermChart) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// View renders the title and chart body. active highlights one point and
// shows its tooltip; pass -1 for none.
func (c *TermChart) View(active int) string {
	if c.Destroyed() {
		return ""
	}
	t := theme.Active

	titleStyle := lipgloss.NewStyle().
		Foreground(chartColor(c.cfg.TitleColor, t.TextPrimary)).
		Background(t.Surface).
		Bold(true)
	title := lipgloss.PlaceHorizontal(c.width, lipgloss.Center, titleStyle.Render(c.cfg.Title),
		lipgloss.WithWhitespaceBackground(t.Surface))

	bodyH := c.height - 2 // title + gap
	var body string
	switch c.cfg.Kind {
	case chart.Doughnut:
		body = components.Doughnut(c.cfg, c.width, bodyH, active)
		if tip := components.Tooltip(c.cfg, active); tip != "" {
			body += "\n" + lipgloss.PlaceHorizontal(c.width, lipgloss.Center, tip,
				lipgloss.WithWhitespaceBackground(t.Surface))
		}
	case chart.Line:
		body = components.LineChart(c.cfg, c.width, bodyH, active)
	default:
		body = fmt.Sprintf("unsupported chart kind %q", c.cfg.Kind)
	}
	return title + "\n\n" + body
}

// TooltipText returns the plain tooltip lines for point i, or nil when i is
// out of range.
func (c *TermChart) TooltipText(i int) []string {
	if i < 0 || i >= c.cfg.Len() {
		return nil
	}
	var lines []string
	if title := c.cfg.TooltipTitle(i); title != "" {
		lines = append(lines, title)
	}
	return append(lines, c.cfg.TooltipLabel(i))
}

// Size returns the box the chart was laid out for.
func (c *TermChart) Size() (width, height int) { return c.width, c.height }

func chartColor(c chart.Color, fallback lipgloss.Color) lipgloss.Color {
	if c == (chart.Color{}) {
		return fallback
	}
	return components.Color(c)
}
