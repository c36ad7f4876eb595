package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	asyncEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esclient",
			Name:      "async_writes_enqueued_total",
			Help:      "Async index and delete writes accepted into the shard executor.",
		},
		[]string{"shard"},
	)

	asyncFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esclient",
			Name:      "async_writes_failed_total",
			Help:      "Async writes whose job returned an error, panicked or was cancelled.",
		},
		[]string{"shard"},
	)
)
