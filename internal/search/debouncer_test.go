package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/buyzaar/storefront/internal/catalog"
)

type stubSearcher struct {
	mu      sync.Mutex
	calls   []string
	results []catalog.Product
}

func (s *stubSearcher) Search(text string) []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, text)
	return s.results
}

func (s *stubSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type delivery struct {
	query   string
	results []catalog.Product
}

func TestBurstCollapsesToOneSearch(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []catalog.Product{{ID: "prod-1"}}}
	deb := NewDebouncer(DebouncerParams{
		Searcher:    searcher,
		QuietWindow: 20 * time.Millisecond,
	})

	got := make(chan delivery, 4)
	deliver := func(query string, results []catalog.Product) {
		got <- delivery{query: query, results: results}
	}

	ctx := context.Background()
	deb.Query(ctx, "ja", deliver)
	deb.Query(ctx, "jac", deliver)
	deb.Query(ctx, "jacket", deliver)

	select {
	case d := <-got:
		if d.query != "jacket" {
			t.Fatalf("expected the latest query to win, got %q", d.query)
		}
		if len(d.results) != 1 {
			t.Fatalf("unexpected results %+v", d.results)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the settled search")
	}

	// No stacked timers: the earlier queries never reach the catalog.
	time.Sleep(50 * time.Millisecond)
	if n := searcher.callCount(); n != 1 {
		t.Fatalf("expected exactly one catalog search, got %d", n)
	}
}

func TestShortQueryShortCircuits(t *testing.T) {
	t.Parallel()

	// "é" is one character in two bytes; it must short-circuit like "j".
	for _, query := range []string{"j", "é", " j ", ""} {
		searcher := &stubSearcher{results: []catalog.Product{{ID: "prod-1"}}}
		deb := NewDebouncer(DebouncerParams{
			Searcher:    searcher,
			QuietWindow: time.Hour,
		})

		var delivered *delivery
		deb.Query(context.Background(), query, func(q string, results []catalog.Product) {
			delivered = &delivery{query: q, results: results}
		})

		// Delivery happens synchronously for short input.
		if delivered == nil || delivered.query != query || len(delivered.results) != 0 {
			t.Fatalf("query %q: expected an immediate empty result, got %+v", query, delivered)
		}
		if deb.Pending() {
			t.Fatalf("query %q: short input must not start a timer", query)
		}
		if searcher.callCount() != 0 {
			t.Fatalf("query %q: short input must not reach the catalog", query)
		}
	}
}

func TestShortQueryDeliverMayReenter(t *testing.T) {
	t.Parallel()

	deb := NewDebouncer(DebouncerParams{
		Searcher:    &stubSearcher{},
		QuietWindow: time.Hour,
	})

	// A deliver callback that touches the debouncer again must not deadlock.
	var inner bool
	deb.Query(context.Background(), "j", func(string, []catalog.Product) {
		deb.Cancel()
		deb.Query(context.Background(), "k", func(string, []catalog.Product) {
			inner = true
		})
	})
	if !inner {
		t.Fatal("re-entrant short query never delivered")
	}
}

func TestShortQuerySupersedesPendingSearch(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{}
	deb := NewDebouncer(DebouncerParams{
		Searcher:    searcher,
		QuietWindow: 20 * time.Millisecond,
	})

	got := make(chan delivery, 2)
	deliver := func(query string, results []catalog.Product) {
		got <- delivery{query: query, results: results}
	}

	ctx := context.Background()
	deb.Query(ctx, "jacket", deliver)
	deb.Query(ctx, "j", deliver)

	d := <-got
	if d.query != "j" || len(d.results) != 0 {
		t.Fatalf("expected the short query's empty result, got %+v", d)
	}

	time.Sleep(50 * time.Millisecond)
	if searcher.callCount() != 0 {
		t.Fatal("superseded search must never run")
	}
	select {
	case d := <-got:
		t.Fatalf("unexpected extra delivery %+v", d)
	default:
	}
}

func TestCancelDropsPendingSearch(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{}
	deb := NewDebouncer(DebouncerParams{
		Searcher:    searcher,
		QuietWindow: 20 * time.Millisecond,
	})

	deb.Query(context.Background(), "jacket", func(string, []catalog.Product) {
		t.Error("cancelled search must not deliver")
	})
	if !deb.Pending() {
		t.Fatal("expected a pending search before cancel")
	}
	deb.Cancel()
	if deb.Pending() {
		t.Fatal("expected no pending search after cancel")
	}

	time.Sleep(50 * time.Millisecond)
	if searcher.callCount() != 0 {
		t.Fatal("cancelled search must never run")
	}
}

func TestFlushRunsPendingSearchImmediately(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []catalog.Product{{ID: "prod-1"}}}
	deb := NewDebouncer(DebouncerParams{
		Searcher:    searcher,
		QuietWindow: time.Hour,
	})

	got := make(chan delivery, 1)
	deb.Query(context.Background(), "jacket", func(query string, results []catalog.Product) {
		got <- delivery{query: query, results: results}
	})
	deb.Flush()

	select {
	case d := <-got:
		if d.query != "jacket" || len(d.results) != 1 {
			t.Fatalf("unexpected delivery %+v", d)
		}
	case <-time.After(time.Second):
		t.Fatal("flush should deliver without waiting out the window")
	}
}

func TestDefaultsApplied(t *testing.T) {
	t.Parallel()

	deb := NewDebouncer(DebouncerParams{Searcher: &stubSearcher{}})
	if deb.window != 300*time.Millisecond {
		t.Fatalf("unexpected default window %s", deb.window)
	}
	if deb.minLen != 2 {
		t.Fatalf("unexpected default minimum length %d", deb.minLen)
	}
}
