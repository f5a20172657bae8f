package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "shopsearch"

// Catalog and search Prometheus metrics.
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Total number of upstream catalog requests",
		},
		[]string{"pass", "status"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Upstream catalog request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"pass"},
	)

	CatalogProductsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_products_fetched_total",
			Help:      "Products returned by the upstream catalog",
		},
		[]string{"pass"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of products returned per search",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 12, 20},
		},
		[]string{"operation"},
	)

	SearchFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_fallback_total",
			Help:      "Searches where no product cleared the relevance threshold",
		},
		[]string{"operation"},
	)

	AssistantRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_requests_total",
			Help:      "Message generation requests by provider and status",
		},
		[]string{"provider", "status"},
	)

	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejected_total",
			Help:      "Requests rejected by admission control",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers catalog, search, assistant and rate-limit metrics.
// Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		CatalogRequestsTotal,
		CatalogRequestDuration,
		CatalogProductsFetched,
		SearchResults,
		SearchFallbackTotal,
		AssistantRequestsTotal,
		RateLimitRejectedTotal,
	)
	searchMetricsRegistered = true
}
