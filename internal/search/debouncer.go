// Package search coalesces rapid query input into single catalog lookups.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/pkg/logger"
	"github.com/buyzaar/storefront/pkg/metrics"
)

// Searcher is the read side of the catalog the debouncer queries.
type Searcher interface {
	Search(text string) []catalog.Product
}

// DebouncerParams groups dependencies for the search debouncer.
type DebouncerParams struct {
	Searcher       Searcher
	Logger         *logger.Logger
	Metrics        *metrics.StorefrontMetrics
	QuietWindow    time.Duration
	MinQueryLength int
}

// Debouncer collapses bursts of query input into one catalog search per
// settled burst. A new query supersedes the pending one; the pending timer
// is reset, never stacked, so at most one search is in flight per burst.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	searcher Searcher
	logg     *logger.Logger
	metr     *metrics.StorefrontMetrics
	window   time.Duration
	minLen   int
}

// NewDebouncer builds a debouncer around the given searcher. A zero quiet
// window or minimum length falls back to the catalog defaults.
func NewDebouncer(params DebouncerParams) *Debouncer {
	window := params.QuietWindow
	if window <= 0 {
		window = 300 * time.Millisecond
	}
	minLen := params.MinQueryLength
	if minLen <= 0 {
		minLen = 2
	}
	return &Debouncer{
		searcher: params.Searcher,
		logg:     params.Logger,
		metr:     params.Metrics,
		window:   window,
		minLen:   minLen,
	}
}

// Query schedules a search for the given text once the quiet window elapses
// without a newer query. Results reach deliver with the query they answer.
// Text shorter than the minimum length cancels any pending search and
// delivers an empty result synchronously without touching the catalog.
func (d *Debouncer) Query(ctx context.Context, text string, deliver func(query string, results []catalog.Product)) {
	d.mu.Lock()

	if d.timer != nil {
		if d.timer.Stop() {
			d.metr.IncSearchCoalesced()
		}
		d.timer = nil
	}

	// Length is counted in characters, not bytes, so a single multibyte
	// rune still short-circuits.
	if utf8.RuneCountInString(strings.TrimSpace(text)) < d.minLen {
		d.mu.Unlock()
		deliver(text, []catalog.Product{})
		return
	}
	defer d.mu.Unlock()

	var fired *time.Timer
	fired = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.timer == fired {
			d.timer = nil
		}
		d.mu.Unlock()

		results := d.searcher.Search(text)
		d.metr.IncSearchExecuted()
		if d.logg != nil {
			d.logg.Info(d.logg.WithFields(ctx, map[string]any{
				"query":   text,
				"matches": len(results),
			}), "search executed")
		}
		deliver(text, results)
	})
	d.timer = fired
}

// Flush runs the pending search immediately instead of waiting out the
// quiet window. It is a no-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	timer := d.timer
	d.timer = nil
	d.mu.Unlock()

	if timer != nil && timer.Stop() {
		timer.Reset(0)
	}
}

// Cancel drops any pending search without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a search is waiting on the quiet window.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
