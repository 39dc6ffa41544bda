// Package tui provides the interactive Bubble Tea dashboard for spendview.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/config"
	"github.com/theirongolddev/spendview/internal/render"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/surface"
	"github.com/theirongolddev/spendview/internal/tui/components"
	"github.com/theirongolddev/spendview/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// DrawnMsg is sent when a DrawCharts call finishes.
type DrawnMsg struct {
	Result *render.Result
	Err    error
	Days   int
}

// App is the root Bubble Tea model.
type App struct {
	renderer *render.Renderer
	registry *surface.Registry
	catTerm  *surface.Terminal
	dayTerm  *surface.Terminal

	// Data from the last successful draw
	resp        summary.Response
	loaded      bool
	loadErr     error
	lastRefresh time.Time
	took        time.Duration
	refreshing  bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	days      int

	// Inspection cursors, -1 when nothing is selected
	catCursor int
	dayCursor int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 180
	minContentHeight = 5

	drawTimeout = 30 * time.Second
)

// Tab indexes, in components.Tabs order.
const (
	tabOverview = iota
	tabCategory
	tabDaily
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates the dashboard. It binds two terminal surfaces into the
// renderer's registry; their size follows the window.
func NewApp(r *render.Renderer, days int) (App, error) {
	catTerm := surface.NewTerminal(render.CategorySurface, 40, 16)
	dayTerm := surface.NewTerminal(render.DailySurface, 40, 16)
	reg := r.Registry()
	if err := reg.Bind(catTerm); err != nil {
		return App{}, err
	}
	if err := reg.Bind(dayTerm); err != nil {
		return App{}, err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Cyan).Background(theme.Active.Surface)

	if days <= 0 {
		days = loadConfigOrDefault().General.DefaultDays
	}

	a := App{
		renderer:  r,
		registry:  reg,
		catTerm:   catTerm,
		dayTerm:   dayTerm,
		days:      days,
		catCursor: -1,
		dayCursor: -1,
		needSetup: !config.Exists(),
		spinner:   sp,
	}
	if a.needSetup {
		vals := SetupValuesFrom(loadConfigOrDefault())
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a, nil
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		tickCmd(),
	}
	if a.needSetup && a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	} else {
		cmds = append(cmds, drawCmd(a.renderer, a.days))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.relayout()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.needSetup {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.setTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			return a.refresh()
		case "7":
			return a.setDays(7)
		case "3":
			return a.setDays(30)
		case "9":
			return a.setDays(90)
		case "tab":
			a.setTab((a.activeTab + 1) % len(components.Tabs))
		case "shift+tab":
			a.setTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		case "left", "h":
			a.stepDay(-1)
		case "right", "l":
			a.stepDay(1)
		case "up", "k":
			a.stepCategory(-1)
		case "down", "j":
			a.stepCategory(1)
		case "esc":
			a.catCursor, a.dayCursor = -1, -1
		default:
			if len(msg.Runes) == 1 {
				if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
					a.setTab(idx)
				}
			}
		}
		return a, nil

	case DrawnMsg:
		a.refreshing = false
		if msg.Err != nil {
			// Previous charts stay on screen.
			a.loadErr = msg.Err
			return a, nil
		}
		a.loadErr = nil
		a.loaded = true
		a.days = msg.Days
		a.resp = msg.Result.Summary
		a.took = msg.Result.Took
		a.lastRefresh = time.Now()
		a.clampCursors()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		// Re-render so the data age in the status bar stays current.
		return a, tickCmd()
	}

	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			a.loadErr = err
		}
		a.needSetup = false
		a.setupForm = nil
		a.refreshing = true
		return a, tea.Batch(drawCmd(a.renderer, a.days), a.spinner.Tick)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		a.refreshing = true
		return a, tea.Batch(drawCmd(a.renderer, a.days), a.spinner.Tick)
	}
	return a, cmd
}

func (a App) refresh() (tea.Model, tea.Cmd) {
	if a.refreshing {
		return a, nil
	}
	a.refreshing = true
	return a, tea.Batch(drawCmd(a.renderer, a.days), a.spinner.Tick)
}

func (a App) setDays(days int) (tea.Model, tea.Cmd) {
	if days == a.days && a.loaded {
		return a, nil
	}
	a.days = days
	a.refreshing = true
	return a, tea.Batch(drawCmd(a.renderer, a.days), a.spinner.Tick)
}

func (a *App) setTab(idx int) {
	if idx == a.activeTab {
		return
	}
	a.activeTab = idx
	a.relayout()
}

// stepDay moves the daily cursor, starting from the latest day.
func (a *App) stepDay(delta int) {
	n := len(a.resp.Daily)
	if n == 0 {
		return
	}
	if a.dayCursor < 0 {
		a.dayCursor = n - 1
		return
	}
	a.dayCursor = max(0, min(n-1, a.dayCursor+delta))
}

// stepCategory moves the category cursor, starting from the first slice.
func (a *App) stepCategory(delta int) {
	n := len(a.resp.Categories)
	if n == 0 {
		return
	}
	if a.catCursor < 0 {
		a.catCursor = 0
		return
	}
	a.catCursor = max(0, min(n-1, a.catCursor+delta))
}

// moveCursor maps the mouse wheel onto whichever chart the tab shows.
func (a *App) moveCursor(delta int) {
	if a.activeTab == tabDaily {
		a.stepDay(delta)
		return
	}
	a.stepCategory(delta)
}

func (a *App) clampCursors() {
	if a.catCursor >= len(a.resp.Categories) {
		a.catCursor = len(a.resp.Categories) - 1
	}
	if a.dayCursor >= len(a.resp.Daily) {
		a.dayCursor = len(a.resp.Daily) - 1
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) contentHeight() int {
	// tab bar + status bar
	return max(minContentHeight, a.height-2)
}

// relayout resizes both terminal surfaces for the active tab and redraws the
// live charts at the new size. No fetch happens.
func (a *App) relayout() {
	if a.width == 0 || a.catTerm == nil {
		return
	}
	cat, day := a.chartBoxes()
	a.catTerm.Resize(cat.w, cat.h)
	a.dayTerm.Resize(day.w, day.h)

	for _, id := range []string{render.CategorySurface, render.DailySurface} {
		want := day
		if id == render.CategorySurface {
			want = cat
		}
		_, _, _ = a.registry.Redraw(id, func(inst surface.Instance) (chart.Config, bool) {
			tc, ok := inst.(*surface.TermChart)
			if !ok {
				return chart.Config{}, false
			}
			if w, h := tc.Size(); w == want.w && h == want.h {
				return chart.Config{}, false
			}
			return tc.Config(), true
		})
	}
}

type box struct{ w, h int }

// metricRowHeight is the height of a MetricCard row: border plus three lines.
const metricRowHeight = 5

// chartBoxes returns the inner chart boxes for the active tab. Charts draw
// their own title, so cards only add a border.
func (a App) chartBoxes() (cat, day box) {
	cw := a.contentWidth()
	ch := a.contentHeight()
	const cardChrome = 2 // border top + bottom

	switch a.activeTab {
	case tabCategory:
		widths := components.LayoutRow(cw, 2)
		cat = box{components.CardInnerWidth(widths[0]), ch - cardChrome}
		day = cat
	case tabDaily:
		day = box{components.CardInnerWidth(cw), ch - cardChrome}
		cat = day
	default:
		widths := components.LayoutRow(cw, 2)
		h := ch - metricRowHeight - cardChrome
		cat = box{components.CardInnerWidth(widths[0]), h}
		day = box{components.CardInnerWidth(widths[1]), h}
	}
	cat.h = max(4, cat.h)
	day.h = max(4, day.h)
	return cat, day
}

// liveChart returns the terminal chart currently drawn on id, if any.
func (a App) liveChart(id string) *surface.TermChart {
	inst, ok := a.registry.Live(id)
	if !ok {
		return nil
	}
	tc, _ := inst.(*surface.TermChart)
	return tc
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if !a.loaded {
		if a.loadErr != nil && !a.refreshing {
			return a.viewError()
		}
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(5, a.height)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spendview needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ spendview"))
	b.WriteString(subtitleStyle.Render(" · Spending Charts"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(fmt.Sprintf(" Fetching the last %d days...", a.days)))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3).
		MaxWidth(a.width - 4)
	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	body := titleStyle.Render("Could not load spending summary") + "\n\n" +
		textStyle.Render(a.loadErr.Error()) + "\n\n" +
		dimStyle.Render("[r] retry  [q] quit")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o c d", "Jump to tab"},
			{"tab", "Next tab"},
			{"← →", "Inspect previous / next day"},
			{"↑ ↓", "Inspect previous / next category"},
			{"esc", "Clear selection"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Refresh charts"},
			{"7 3 9", "Show 7 / 30 / 90 days"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(s.name))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.days, a.dataAge())

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case tabCategory:
		content = a.renderCategoryTab(cw)
	case tabDaily:
		content = a.renderDailyTab(cw)
	default:
		content = a.renderOverviewTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// dataAge describes the last refresh for the status bar.
func (a App) dataAge() string {
	switch {
	case a.refreshing:
		return a.spinner.View() + " refreshing"
	case a.loadErr != nil:
		return "refresh failed"
	case a.lastRefresh.IsZero():
		return ""
	}
	return humanize.Time(a.lastRefresh)
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// drawCmd fetches and redraws both charts off the UI goroutine.
func drawCmd(r *render.Renderer, days int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), drawTimeout)
		defer cancel()
		res, err := r.DrawCharts(ctx, days)
		return DrawnMsg{Result: res, Err: err, Days: days}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	return components.TabAt(x, a.activeTab)
}
