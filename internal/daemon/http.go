package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theirongolddev/spendview/internal/log"
)

// encodedChart is a live chart that has image bytes to serve.
type encodedChart interface {
	Bytes() []byte
	ContentType() string
}

// Handler returns the daemon's HTTP routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
		r.Post("/refresh", s.handleRefresh)
	})
	r.Get("/charts/{surface}", s.handleChart)
	return r
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatus, ww.Status(),
			log.FieldDuration, time.Since(start).Milliseconds(),
		)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

// handleRefresh redraws now. An optional ?days=N changes the window for this
// and later polls.
func (s *Service) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		s.SetDays(days)
	}

	s.pollOnce(r.Context())

	st := s.snapshotStatus()
	if st.LastError != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(st)
		return
	}
	writeJSON(w, st)
}

// handleChart serves the live image for a surface. A trailing extension
// ("/charts/dailyChart.svg") is accepted and ignored.
func (s *Service) handleChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "surface")
	if dot := strings.LastIndexByte(id, '.'); dot > 0 {
		id = id[:dot]
	}

	inst, ok := s.registry.Live(id)
	if !ok {
		http.Error(w, fmt.Sprintf("no chart on surface %q", id), http.StatusNotFound)
		return
	}
	img, ok := inst.(encodedChart)
	if !ok {
		http.Error(w, fmt.Sprintf("surface %q does not produce images", id), http.StatusNotImplemented)
		return
	}
	data := img.Bytes()
	if data == nil {
		// Replaced between lookup and read.
		http.Error(w, "chart is being redrawn, retry", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", img.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
