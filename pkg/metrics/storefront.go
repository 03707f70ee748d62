package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records engine activity: cart mutations and how the
// search debouncer collapses input bursts.
type StorefrontMetrics struct {
	cartMutations   *prometheus.CounterVec
	searchExecuted  prometheus.Counter
	searchCoalesced prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart ledger mutations by operation.",
	}, []string{"op"})
	searchExecuted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_executed_total",
		Help: "Catalog searches actually issued after the quiet window.",
	})
	searchCoalesced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_coalesced_total",
		Help: "Search invocations superseded before their timer fired.",
	})
	reg.MustRegister(cartMutations, searchExecuted, searchCoalesced)
	return &StorefrontMetrics{
		cartMutations:   cartMutations,
		searchExecuted:  searchExecuted,
		searchCoalesced: searchCoalesced,
	}
}

// IncCartMutation increments the counter for the named cart operation.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncSearchExecuted counts a search issued against the catalog.
func (m *StorefrontMetrics) IncSearchExecuted() {
	if m == nil || m.searchExecuted == nil {
		return
	}
	m.searchExecuted.Inc()
}

// IncSearchCoalesced counts a pending search superseded by newer input.
func (m *StorefrontMetrics) IncSearchCoalesced() {
	if m == nil || m.searchCoalesced == nil {
		return
	}
	m.searchCoalesced.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
