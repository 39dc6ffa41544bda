package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/theirongolddev/spendview/internal/chart"
	"github.com/theirongolddev/spendview/internal/log"
)

type binding struct {
	surface Surface
	live    Instance
	drawnAt time.Time
}

// Registry maps surface ids to their live chart. Each surface holds zero or
// one live instance; Draw destroys the previous one before creating the next,
// and both steps happen under the registry lock.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]*binding
	log      *slog.Logger
}

// NewRegistry returns a registry with the given surfaces bound.
func NewRegistry(surfaces ...Surface) *Registry {
	r := &Registry{
		bindings: make(map[string]*binding, len(surfaces)),
		log:      log.WithComponent(nil, log.ComponentSurface),
	}
	for _, s := range surfaces {
		r.bindings[s.ID()] = &binding{surface: s}
	}
	return r
}

// SetLogger replaces the registry's logger.
func (r *Registry) SetLogger(l *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = log.WithComponent(l, log.ComponentSurface)
}

// Bind attaches s under its id. Rebinding an id destroys the chart that was
// live on the old surface.
func (r *Registry) Bind(s Surface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if old, ok := r.bindings[s.ID()]; ok && old.live != nil {
		err = old.live.Destroy()
	}
	r.bindings[s.ID()] = &binding{surface: s}
	if err != nil {
		return fmt.Errorf("surface %s: destroy on rebind: %w", s.ID(), err)
	}
	return nil
}

// Draw replaces the live chart on surface id with one built from cfg.
//
// If destroying the previous instance fails, the reference is dropped and the
// error returned without drawing, so a surface never carries two charts.
func (r *Registry) Draw(id string, cfg chart.Config) (Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSurface, id)
	}
	return r.drawLocked(id, b, cfg)
}

// Redraw passes the live chart on surface id to next and, when next asks for
// it, replaces that chart with the returned config. The read and the redraw
// share one lock hold, so a Draw from another goroutine is never overwritten
// with an older config. It reports false when nothing was drawn.
func (r *Registry) Redraw(id string, next func(Instance) (chart.Config, bool)) (Instance, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[id]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrNoSurface, id)
	}
	if b.live == nil {
		return nil, false, nil
	}
	cfg, ok := next(b.live)
	if !ok {
		return b.live, false, nil
	}
	inst, err := r.drawLocked(id, b, cfg)
	return inst, err == nil, err
}

func (r *Registry) drawLocked(id string, b *binding, cfg chart.Config) (Instance, error) {
	if b.live != nil {
		prev := b.live
		b.live = nil
		if err := prev.Destroy(); err != nil {
			r.log.Warn("destroy failed", log.FieldSurface, id, log.FieldError, err)
			return nil, fmt.Errorf("surface %s: destroy previous chart: %w", id, err)
		}
	}

	inst, err := b.surface.Draw(cfg)
	if err != nil {
		return nil, fmt.Errorf("surface %s: draw: %w", id, err)
	}
	b.live = inst
	b.drawnAt = time.Now()
	r.log.Debug("chart drawn", log.FieldSurface, id, "points", cfg.Len())
	return inst, nil
}

// Live returns the chart currently on surface id.
func (r *Registry) Live(id string) (Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[id]
	if !ok || b.live == nil {
		return nil, false
	}
	return b.live, true
}

// DrawnAt reports when surface id last received a chart.
func (r *Registry) DrawnAt(id string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[id]
	if !ok || b.live == nil {
		return time.Time{}, false
	}
	return b.drawnAt, true
}

// Surface returns the surface bound under id.
func (r *Registry) Surface(id string) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[id]
	if !ok {
		return nil, false
	}
	return b.surface, true
}

// Len returns the number of live charts across all surfaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, b := range r.bindings {
		if b.live != nil {
			n++
		}
	}
	return n
}

// IDs returns the bound surface ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.bindings))
	for id := range r.bindings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close destroys every live chart. Surfaces stay bound.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, b := range r.bindings {
		if b.live == nil {
			continue
		}
		if err := b.live.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("surface %s: %w", id, err))
		}
		b.live = nil
	}
	return errors.Join(errs...)
}
