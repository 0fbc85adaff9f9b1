package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// childChanges counts reconciled child rows by collection
	// (ingredients, instructions) and operation (create, update, delete).
	childChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_child_changes_total",
			Help: "Recipe child rows created, updated, or deleted by committed writes.",
		},
		[]string{"collection", "op"},
	)

	// productsPruned counts linked products removed because no ingredient
	// references them any more.
	productsPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_products_pruned_total",
			Help: "Orphaned linked products removed after recipe writes.",
		},
	)

	// searchRequests counts upstream supermarket searches by supermarket and
	// outcome (ok, error).
	searchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supermarket_search_requests_total",
			Help: "Upstream supermarket searches by supermarket and outcome.",
		},
		[]string{"supermarket", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(childChanges, productsPruned, searchRequests)
}

// changeTally accumulates counts inside a transaction and is flushed to
// Prometheus only after commit.
type changeTally struct {
	counts map[[2]string]int
	pruned int64
}

func (t *changeTally) add(collection, op string, n int) {
	if n == 0 {
		return
	}
	if t.counts == nil {
		t.counts = make(map[[2]string]int)
	}
	t.counts[[2]string{collection, op}] += n
}

func (t *changeTally) flush() {
	for k, n := range t.counts {
		childChanges.WithLabelValues(k[0], k[1]).Add(float64(n))
	}
	if t.pruned > 0 {
		productsPruned.Add(float64(t.pruned))
	}
}
