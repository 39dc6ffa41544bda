// Package render ties the summary client, the chart builders and the surface
// registry together. Renderer.DrawCharts is the one operation every front end
// calls: the root command, the dashboard's refresh and the daemon's ticker.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/log"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/surface"
)

// Surface ids the renderer draws to.
const (
	CategorySurface = "categoryChart"
	DailySurface    = "dailyChart"
)

// Fetcher loads a spending summary. *summary.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, days int) (summary.Response, error)
}

// Result describes one completed DrawCharts call.
type Result struct {
	Summary  summary.Response
	Category surface.Instance
	Daily    surface.Instance
	Took     time.Duration
}

// Renderer fetches the summary and redraws both charts.
type Renderer struct {
	mu       sync.RWMutex
	fetch    Fetcher
	registry *surface.Registry
	log      *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger; the component field is added here.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.log = log.WithComponent(l, log.ComponentRender) }
}

// New returns a renderer drawing through registry.
func New(fetch Fetcher, registry *surface.Registry, opts ...Option) *Renderer {
	r := &Renderer{
		fetch:    fetch,
		registry: registry,
		log:      log.WithComponent(nil, log.ComponentRender),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// SetFetcher swaps the summary source, e.g. after the server URL changed.
// Calls already fetching keep the old source.
func (r *Renderer) SetFetcher(f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetch = f
}

func (r *Renderer) fetcher() Fetcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fetch
}

// Registry returns the registry the renderer draws into.
func (r *Renderer) Registry() *surface.Registry { return r.registry }

// DrawCharts fetches the last days of spending and redraws both surfaces.
//
// If the fetch fails nothing is drawn and the error is returned. Otherwise the
// category chart is drawn, then the daily chart; each replaces whatever was
// live on its surface. Concurrent calls are allowed and the last draw to
// reach a surface wins.
func (r *Renderer) DrawCharts(ctx context.Context, days int) (*Result, error) {
	if days <= 0 {
		days = summary.DefaultDays
	}
	start := time.Now()

	resp, err := r.fetcher().Fetch(ctx, days)
	if err != nil {
		r.log.Error("fetch summary", log.FieldDays, days, log.FieldError, err)
		return nil, fmt.Errorf("render: %w", err)
	}

	res := &Result{Summary: resp}

	res.Category, err = r.registry.Draw(CategorySurface, chart.Category(resp))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Daily, err = r.registry.Draw(DailySurface, chart.Daily(resp))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	res.Took = time.Since(start)
	r.log.Info("charts drawn",
		log.FieldDays, days,
		"categories", len(resp.Categories),
		"daily_points", len(resp.Daily),
		log.FieldDuration, res.Took.Milliseconds(),
	)
	return res, nil
}
