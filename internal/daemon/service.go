// Package daemon keeps the charts fresh in the background and serves them
// over HTTP together with a status and event feed.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/spendview/internal/log"
	"github.com/theirongolddev/spendview/internal/render"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/surface"

	"golang.org/x/sync/errgroup"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Server       string
	Days         int
	Interval     time.Duration
	Addr         string
	EventsBuffer int
}

// Drawer redraws both charts. *render.Renderer implements it.
type Drawer interface {
	DrawCharts(ctx context.Context, days int) (*render.Result, error)
}

// Snapshot is a compact spending state for status/event payloads.
type Snapshot struct {
	At               time.Time `json:"at"`
	Days             int       `json:"days"`
	TotalSpent       float64   `json:"total_spent"`
	Categories       int       `json:"categories"`
	DailyPoints      int       `json:"daily_points"`
	TopCategory      string    `json:"top_category,omitempty"`
	TopCategoryTotal float64   `json:"top_category_total,omitempty"`
	PeakDay          string    `json:"peak_day,omitempty"`
	PeakDayTotal     float64   `json:"peak_day_total,omitempty"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	TotalSpent  float64 `json:"total_spent"`
	Categories  int     `json:"categories"`
	DailyPoints int     `json:"daily_points"`
}

func (d Delta) isZero() bool {
	return d.TotalSpent == 0 &&
		d.Categories == 0 &&
		d.DailyPoints == 0
}

// Event is emitted whenever the spending snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// SurfaceStatus describes one chart surface.
type SurfaceStatus struct {
	ID      string    `json:"id"`
	Live    bool      `json:"live"`
	DrawnAt time.Time `json:"drawn_at,omitempty"`
	URL     string    `json:"url"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time       `json:"started_at"`
	LastPollAt      time.Time       `json:"last_poll_at"`
	PollIntervalSec int             `json:"poll_interval_sec"`
	PollCount       int64           `json:"poll_count"`
	Server          string          `json:"server"`
	Days            int             `json:"days"`
	Summary         Snapshot        `json:"summary"`
	Surfaces        []SurfaceStatus `json:"surfaces"`
	LastError       string          `json:"last_error,omitempty"`
	EventCount      int             `json:"event_count"`
	SubscriberCount int             `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg      Config
	drawer   Drawer
	registry *surface.Registry
	log      *slog.Logger

	// pollMu serializes polls so snapshots and events stay in draw order.
	pollMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	days        int
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon that redraws through drawer and serves the charts
// live in registry.
func New(cfg Config, drawer Drawer, registry *surface.Registry, logger *slog.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 60 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Days <= 0 {
		cfg.Days = summary.DefaultDays
	}

	return &Service{
		cfg:       cfg,
		drawer:    drawer,
		registry:  registry,
		log:       log.WithComponent(logger, log.ComponentDaemon),
		startedAt: time.Now(),
		days:      cfg.Days,
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP and redraws on every interval until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		// Seed the charts so status and images are useful immediately.
		s.pollOnce(gctx)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce(gctx)
			}
		}
	})

	return g.Wait()
}

// SetDays changes the window used by later polls.
func (s *Service) SetDays(days int) {
	if days <= 0 {
		return
	}
	s.mu.Lock()
	s.days = days
	s.mu.Unlock()
}

func (s *Service) pollOnce(ctx context.Context) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	s.mu.RLock()
	days := s.days
	s.mu.RUnlock()

	res, err := s.drawer.DrawCharts(ctx, days)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		if ctx.Err() == nil {
			s.log.Warn("poll failed", log.FieldDays, days, log.FieldError, err)
		}
		return
	}

	now := time.Now()
	snap := snapshotFromSummary(res.Summary, days, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	switch {
	case !prevExists || prev.Days != snap.Days:
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: "snapshot", Timestamp: now, Snapshot: snap}
		publish = true
	default:
		if delta := diffSnapshots(prev, snap); !delta.isZero() {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: "spend_delta", Timestamp: now, Snapshot: snap, Delta: delta}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func snapshotFromSummary(resp summary.Response, days int, at time.Time) Snapshot {
	snap := Snapshot{
		At:          at,
		Days:        days,
		Categories:  len(resp.Categories),
		DailyPoints: len(resp.Daily),
	}

	if top, ok := resp.TopCategory(); ok {
		snap.TopCategory, snap.TopCategoryTotal = top.Category, top.Total
	}
	if peak, ok := resp.PeakDay(); ok {
		snap.PeakDay, snap.PeakDayTotal = peak.Date, peak.Total
	}
	snap.TotalSpent = resp.Total()
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		TotalSpent:  curr.TotalSpent - prev.TotalSpent,
		Categories:  curr.Categories - prev.Categories,
		DailyPoints: curr.DailyPoints - prev.DailyPoints,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	var surfaces []SurfaceStatus
	if s.registry != nil {
		for _, id := range s.registry.IDs() {
			st := SurfaceStatus{ID: id, URL: "/charts/" + id}
			st.DrawnAt, st.Live = s.registry.DrawnAt(id)
			surfaces = append(surfaces, st)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Server:          s.cfg.Server,
		Days:            s.days,
		Summary:         s.snapshot,
		Surfaces:        surfaces,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
