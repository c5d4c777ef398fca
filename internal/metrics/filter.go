package metrics

import "github.com/prometheus/client_golang/prometheus"

// Filter engine Prometheus metrics.
var (
	FilterDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eduhub",
			Name:      "filter_duration_seconds",
			Help:      "Facet filter evaluation duration in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"catalog"},
	)

	FilterResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eduhub",
			Name:      "filter_results",
			Help:      "Number of records matched by a facet filter",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		},
		[]string{"catalog"},
	)

	FilterActiveFacets = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eduhub",
			Name:      "filter_active_facets",
			Help:      "Number of facets restricting a filter request",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
		},
		[]string{"catalog"},
	)

	FilterConfigErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eduhub",
			Name:      "filter_config_errors_total",
			Help:      "Facet configuration errors raised while filtering",
		},
		[]string{"catalog"},
	)
)

var filterMetricsRegistered bool

// RegisterFilterMetrics registers Prometheus filter metrics. Must be called once from main.
func RegisterFilterMetrics() {
	if filterMetricsRegistered {
		return
	}
	prometheus.MustRegister(FilterDuration)
	prometheus.MustRegister(FilterResults)
	prometheus.MustRegister(FilterActiveFacets)
	prometheus.MustRegister(FilterConfigErrorsTotal)
	filterMetricsRegistered = true
}
