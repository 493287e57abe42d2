package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "onesi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Click tracking
	ClicksTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onesi_clicks_tracked_total",
			Help: "Total number of tracked clicks by target type",
		},
		[]string{"target"}, // "link", "product"
	)

	// Cache efficiency
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onesi_cache_hits_total",
			Help: "Total number of read model cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onesi_cache_misses_total",
			Help: "Total number of read model cache misses",
		},
	)
)

// RecordRequest observes one HTTP request
func RecordRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordClick counts one tracked click on target
func RecordClick(target string) {
	ClicksTracked.WithLabelValues(target).Inc()
}
