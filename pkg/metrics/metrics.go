package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stockboard", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stockboard", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	RecordsAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stockboard", Name: "records_appended_total", Help: "Records successfully appended, by store backend."},
		[]string{"backend"},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stockboard", Name: "store_errors_total", Help: "Store failures by operation and kind (read, format, write)."},
		[]string{"op", "kind"},
	)
	CollectionSize = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "stockboard", Name: "collection_records", Help: "Number of records seen on the last successful store read."},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stockboard", Name: "http_requests_total", Help: "Handled HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "stockboard", Name: "http_request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"route"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(RecordsAppended)
	reg.MustRegister(StoreErrors)
	reg.MustRegister(CollectionSize)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
}
