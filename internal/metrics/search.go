package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline and indexing Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchable",
			Name:      "search_duration_seconds",
			Help:      "Search pipeline duration in seconds (build, execute, fetch, hydrate)",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"entity"},
	)

	SearchHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchable",
			Name:      "search_hits",
			Help:      "Number of engine hits per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"entity"},
	)

	SearchVariants = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchable",
			Name:      "search_variants",
			Help:      "Number of layout variants per search",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"entity"},
	)

	SearchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchable",
			Name:      "search_errors_total",
			Help:      "Total search failures",
		},
		[]string{"entity", "kind"}, // "unavailable" / "rejected" / "fetch"
	)

	IndexOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchable",
			Name:      "index_operations_total",
			Help:      "Total index write operations",
		},
		[]string{"entity", "op", "status"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchHits)
	prometheus.MustRegister(SearchVariants)
	prometheus.MustRegister(SearchErrorsTotal)
	prometheus.MustRegister(IndexOperationsTotal)
	searchMetricsRegistered = true
}
