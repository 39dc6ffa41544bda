package render

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/theirongolddev/spendview/internal/log"
	"github.com/theirongolddev/spendview/internal/summary"
	"github.com/theirongolddev/spendview/internal/surface"
)

type stubFetcher struct {
	resp  summary.Response
	err   error
	calls atomic.Int32
	days  atomic.Int32
}

func (f *stubFetcher) Fetch(_ context.Context, days int) (summary.Response, error) {
	f.calls.Add(1)
	f.days.Store(int32(days))
	if f.err != nil {
		return summary.Response{}, f.err
	}
	resp := f.resp
	resp.Days = days
	return resp, nil
}

func sample() summary.Response {
	return summary.Response{
		Categories: []summary.CategoryTotal{
			{Category: "Food", Total: 300},
			{Category: "Travel", Total: 100},
		},
		Daily: []summary.DailyTotal{
			{Date: "2024-01-05", Total: 120},
			{Date: "2024-01-06", Total: 40},
		},
	}
}

func memoryRegistry() *surface.Registry {
	return surface.NewRegistry(
		surface.NewImage(CategorySurface, surface.FormatSVG, surface.WithSize(400, 300)),
		surface.NewImage(DailySurface, surface.FormatSVG, surface.WithSize(400, 300)),
	)
}

func TestDrawChartsDrawsBoth(t *testing.T) {
	f := &stubFetcher{resp: sample()}
	reg := memoryRegistry()
	r := New(f, reg, WithLogger(log.Discard()))

	res, err := r.DrawCharts(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if f.days.Load() != 7 {
		t.Fatalf("fetched days = %d, want 7", f.days.Load())
	}
	if reg.Len() != 2 {
		t.Fatalf("live charts = %d, want 2", reg.Len())
	}
	if got := res.Category.Config().Title; got != "🏷️ Spending by Category (Last 7 Days)" {
		t.Fatalf("category title = %q", got)
	}
	if got := res.Daily.Config().Labels; len(got) != 2 || got[0] != "Jan 5" {
		t.Fatalf("daily labels = %v", got)
	}
}

func TestDrawChartsDefaultDays(t *testing.T) {
	f := &stubFetcher{resp: sample()}
	r := New(f, memoryRegistry(), WithLogger(log.Discard()))
	if _, err := r.DrawCharts(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if f.days.Load() != 30 {
		t.Fatalf("days = %d, want 30", f.days.Load())
	}
}

func TestDrawChartsFetchFailureDrawsNothing(t *testing.T) {
	f := &stubFetcher{err: errors.New("connection refused")}
	reg := memoryRegistry()
	r := New(f, reg, WithLogger(log.Discard()))

	if _, err := r.DrawCharts(context.Background(), 30); err == nil {
		t.Fatal("expected error")
	}
	if reg.Len() != 0 {
		t.Fatalf("live charts = %d after failed fetch, want 0", reg.Len())
	}
}

func TestDrawChartsFailureKeepsPreviousCharts(t *testing.T) {
	f := &stubFetcher{resp: sample()}
	reg := memoryRegistry()
	r := New(f, reg, WithLogger(log.Discard()))

	if _, err := r.DrawCharts(context.Background(), 30); err != nil {
		t.Fatal(err)
	}
	before, _ := reg.Live(DailySurface)

	f.err = errors.New("server down")
	if _, err := r.DrawCharts(context.Background(), 30); err == nil {
		t.Fatal("expected error")
	}
	after, ok := reg.Live(DailySurface)
	if !ok || after != before {
		t.Fatal("a failed fetch must not touch the live charts")
	}
}

func TestDrawChartsSequentialKeepsOnePerSurface(t *testing.T) {
	f := &stubFetcher{resp: sample()}
	reg := memoryRegistry()
	r := New(f, reg, WithLogger(log.Discard()))

	first, err := r.DrawCharts(context.Background(), 30)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.DrawCharts(context.Background(), 7); err != nil {
		t.Fatal(err)
	}

	if reg.Len() != 2 {
		t.Fatalf("live charts = %d, want 2", reg.Len())
	}
	if first.Category.(*surface.ImageChart).Bytes() != nil {
		t.Fatal("first category chart should be destroyed")
	}
	if first.Daily.(*surface.ImageChart).Bytes() != nil {
		t.Fatal("first daily chart should be destroyed")
	}
	live, _ := reg.Live(CategorySurface)
	if live.Config().Window != 7 {
		t.Fatalf("live window = %d, want 7", live.Config().Window)
	}
}

func TestDrawChartsMissingSurface(t *testing.T) {
	f := &stubFetcher{resp: sample()}
	reg := surface.NewRegistry(surface.NewImage(CategorySurface, surface.FormatSVG))
	r := New(f, reg, WithLogger(log.Discard()))

	_, err := r.DrawCharts(context.Background(), 30)
	if !errors.Is(err, surface.ErrNoSurface) {
		t.Fatalf("err = %v, want ErrNoSurface", err)
	}
}

func TestDrawChartsEmptySummary(t *testing.T) {
	f := &stubFetcher{}
	reg := memoryRegistry()
	r := New(f, reg, WithLogger(log.Discard()))

	res, err := r.DrawCharts(context.Background(), 30)
	if err != nil {
		t.Fatal(err)
	}
	if res.Category.Config().Len() != 0 || res.Daily.Config().Len() != 0 {
		t.Fatal("empty summary should draw empty charts")
	}
}

func TestDrawChartsConcurrent(t *testing.T) {
	f := &stubFetcher{resp: sample()}
	reg := memoryRegistry()
	r := New(f, reg, WithLogger(log.Discard()))

	var wg sync.WaitGroup
	results := make(chan *Result, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(days int) {
			defer wg.Done()
			res, err := r.DrawCharts(context.Background(), days)
			if err != nil {
				t.Error(err)
				return
			}
			results <- res
		}(i + 1)
	}
	wg.Wait()
	close(results)

	if reg.Len() != 2 {
		t.Fatalf("live charts = %d, want 2", reg.Len())
	}
	live := 0
	for res := range results {
		if res.Category.(*surface.ImageChart).Bytes() != nil {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("live category charts = %d, want exactly 1", live)
	}
}

func TestDrawChartsOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"days":%s,"categories":[{"category":"Food","total":42.5}],"daily":[{"date":"2024-01-05","total":42.5}]}`,
			r.URL.Query().Get("days"))
	}))
	defer srv.Close()

	client, err := summary.NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	r := New(client, memoryRegistry(), WithLogger(log.Discard()))
	res, err := r.DrawCharts(context.Background(), 14)
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Days != 14 {
		t.Fatalf("days = %d, want 14", res.Summary.Days)
	}
	if got := res.Category.Config().TooltipLabel(0); got != "Food: ₹42.50 (100.0%)" {
		t.Fatalf("tooltip = %q", got)
	}
}

func TestSetFetcherSwapsSource(t *testing.T) {
	old := &stubFetcher{resp: sample()}
	next := &stubFetcher{resp: summary.Response{Categories: []summary.CategoryTotal{{Category: "Rent", Total: 900}}}}
	r := New(old, memoryRegistry(), WithLogger(log.Discard()))

	r.SetFetcher(next)
	res, err := r.DrawCharts(context.Background(), 30)
	if err != nil {
		t.Fatal(err)
	}
	if old.calls.Load() != 0 {
		t.Fatalf("old fetcher called %d times, want 0", old.calls.Load())
	}
	if got := res.Category.Config().Labels; len(got) != 1 || got[0] != "Rent" {
		t.Fatalf("category labels = %v, want [Rent]", got)
	}
}
