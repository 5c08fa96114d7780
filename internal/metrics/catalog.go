package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pazar",
			Name:      "catalog_searches_total",
			Help:      "Total number of catalog searches",
		},
		[]string{"scope"}, // "global" / "market"
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pazar",
			Name:      "catalog_search_results_returned",
			Help:      "Number of products returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	StallClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pazar",
			Name:      "stall_claims_total",
			Help:      "Total number of seller stall claims",
		},
		[]string{"status"}, // "success" / "error"
	)

	RouteLookupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pazar",
			Name:      "route_lookups_total",
			Help:      "Total number of stall route resolutions",
		},
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers Prometheus catalog metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(StallClaimsTotal)
	prometheus.MustRegister(RouteLookupsTotal)
	catalogMetricsRegistered = true
}
