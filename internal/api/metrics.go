package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esclient",
			Name:      "requests_total",
			Help:      "HTTP requests sent to the cluster, by method and status (\"error\" for network failures).",
		},
		[]string{"method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "esclient",
			Name:      "request_duration_seconds",
			Help:      "Latency of a single HTTP attempt.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esclient",
			Name:      "request_retries_total",
			Help:      "Request attempts that failed with a recoverable error and were retried.",
		},
		[]string{"method"},
	)

	bulkItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esclient",
			Name:      "bulk_items_total",
			Help:      "Bulk items acknowledged by the cluster, split by outcome.",
		},
		[]string{"outcome"},
	)
)
