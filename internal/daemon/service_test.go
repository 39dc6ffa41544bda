package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/spendview/internal/log"
	"github.com/theirongolddev/spendview/internal/render"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/surface"
)

type stubFetcher struct {
	mu   sync.Mutex
	resp summary.Response
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, days int) (summary.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return summary.Response{}, f.err
	}
	resp := f.resp
	resp.Days = days
	return resp, nil
}

func (f *stubFetcher) set(resp summary.Response, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp, f.err = resp, err
}

func sample(total float64) summary.Response {
	return summary.Response{
		Categories: []summary.CategoryTotal{
			{Category: "Food", Total: total},
			{Category: "Travel", Total: 100},
		},
		Daily: []summary.DailyTotal{
			{Date: "2024-01-05", Total: 120},
			{Date: "2024-01-06", Total: total - 20},
		},
	}
}

func newTestService(t *testing.T, f *stubFetcher, buffer int) *Service {
	t.Helper()
	reg := surface.NewRegistry(
		surface.NewImage(render.CategorySurface, surface.FormatSVG, surface.WithSize(400, 300)),
		surface.NewImage(render.DailySurface, surface.FormatSVG, surface.WithSize(400, 300)),
	)
	r := render.New(f, reg, render.WithLogger(log.Discard()))
	return New(Config{Server: "http://test", Days: 30, EventsBuffer: buffer}, r, reg, log.Discard())
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{TotalSpent: 400, Categories: 2, DailyPoints: 10}
	curr := Snapshot{TotalSpent: 452.5, Categories: 3, DailyPoints: 11}

	delta := diffSnapshots(prev, curr)
	if math.Abs(delta.TotalSpent-52.5) > 1e-9 {
		t.Fatalf("TotalSpent delta = %.2f, want 52.50", delta.TotalSpent)
	}
	if delta.Categories != 1 {
		t.Fatalf("Categories delta = %d, want 1", delta.Categories)
	}
	if delta.DailyPoints != 1 {
		t.Fatalf("DailyPoints delta = %d, want 1", delta.DailyPoints)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestSnapshotFromSummary(t *testing.T) {
	snap := snapshotFromSummary(sample(300), 30, time.Now())
	if snap.TotalSpent != 400 {
		t.Fatalf("TotalSpent = %v, want 400", snap.TotalSpent)
	}
	if snap.TopCategory != "Food" || snap.TopCategoryTotal != 300 {
		t.Fatalf("top = %s %v", snap.TopCategory, snap.TopCategoryTotal)
	}
	if snap.PeakDay != "2024-01-06" {
		t.Fatalf("PeakDay = %s, want 2024-01-06", snap.PeakDay)
	}

	withServerTotal := sample(300)
	withServerTotal.TotalSpent = 999
	if got := snapshotFromSummary(withServerTotal, 30, time.Now()).TotalSpent; got != 999 {
		t.Fatalf("server total_spent should win, got %v", got)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(t, &stubFetcher{}, 2)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollPublishesSnapshotThenDeltas(t *testing.T) {
	f := &stubFetcher{resp: sample(300)}
	s := newTestService(t, f, 10)
	ctx := context.Background()

	s.pollOnce(ctx)
	s.pollOnce(ctx) // unchanged, no event
	f.set(sample(350), nil)
	s.pollOnce(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events = %d, want 2", len(s.events))
	}
	if s.events[0].Type != "snapshot" || s.events[1].Type != "spend_delta" {
		t.Fatalf("event types = %s, %s", s.events[0].Type, s.events[1].Type)
	}
	if s.events[1].Delta.TotalSpent != 50 {
		t.Fatalf("delta = %v, want 50", s.events[1].Delta.TotalSpent)
	}
	if s.pollCount != 3 {
		t.Fatalf("pollCount = %d, want 3", s.pollCount)
	}
}

func TestPollErrorKeepsCharts(t *testing.T) {
	f := &stubFetcher{resp: sample(300)}
	s := newTestService(t, f, 10)
	s.pollOnce(context.Background())

	f.set(summary.Response{}, errors.New("server down"))
	s.pollOnce(context.Background())

	st := s.snapshotStatus()
	if !strings.Contains(st.LastError, "server down") {
		t.Fatalf("LastError = %q", st.LastError)
	}
	for _, sf := range st.Surfaces {
		if !sf.Live {
			t.Fatalf("surface %s lost its chart after a failed poll", sf.ID)
		}
	}
}

func TestHTTPRoutes(t *testing.T) {
	f := &stubFetcher{resp: sample(300)}
	s := newTestService(t, f, 10)
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	get := func(path string) (*http.Response, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp, string(body)
	}

	if resp, body := get("/healthz"); resp.StatusCode != 200 || body != "ok\n" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}

	resp, body := get("/v1/status")
	if resp.StatusCode != 200 {
		t.Fatalf("status code = %d", resp.StatusCode)
	}
	var st Status
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatal(err)
	}
	if st.Days != 30 || st.Summary.TotalSpent != 400 || len(st.Surfaces) != 2 {
		t.Fatalf("status = %+v", st)
	}

	resp, body = get("/charts/categoryChart")
	if resp.StatusCode != 200 || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("chart = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, "<svg") {
		t.Fatal("chart body is not svg")
	}

	if resp, _ := get("/charts/dailyChart.svg"); resp.StatusCode != 200 {
		t.Fatalf("chart with extension = %d", resp.StatusCode)
	}
	if resp, _ := get("/charts/nope"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown surface = %d, want 404", resp.StatusCode)
	}

	resp, body = get("/v1/events")
	var events []Event
	if err := json.Unmarshal([]byte(body), &events); err != nil || len(events) != 1 {
		t.Fatalf("events = %q (%v)", body, err)
	}
}

func TestRefreshChangesWindow(t *testing.T) {
	f := &stubFetcher{resp: sample(300)}
	s := newTestService(t, f, 10)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/refresh?days=7", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("refresh = %d", resp.StatusCode)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Days != 7 || st.Summary.Days != 7 {
		t.Fatalf("days = %d / %d, want 7", st.Days, st.Summary.Days)
	}

	bad, err := http.Post(srv.URL+"/v1/refresh?days=-1", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad days = %d, want 400", bad.StatusCode)
	}
}

func TestStreamSendsCurrentSnapshot(t *testing.T) {
	f := &stubFetcher{resp: sample(300)}
	s := newTestService(t, f, 10)
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	if line != "event: snapshot\n" {
		t.Fatalf("first line = %q", line)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := &stubFetcher{resp: sample(300)}
	reg := surface.NewRegistry(
		surface.NewImage(render.CategorySurface, surface.FormatSVG),
		surface.NewImage(render.DailySurface, surface.FormatSVG),
	)
	r := render.New(f, reg, render.WithLogger(log.Discard()))
	s := New(Config{Addr: "127.0.0.1:0", Interval: time.Hour}, r, reg, log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for reg.Len() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if reg.Len() != 2 {
		t.Fatal("initial poll did not draw both charts")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}
