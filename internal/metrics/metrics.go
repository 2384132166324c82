package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal counts completed fetches per data kind and source path.
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gustline_fetches_total",
			Help: "Total number of successful fetches",
		},
		[]string{"kind", "source"},
	)

	// FetchErrorsTotal counts failed fetches per data kind and source path.
	FetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gustline_fetch_errors_total",
			Help: "Total number of failed fetches",
		},
		[]string{"kind", "source"},
	)

	// FetchLatency tracks fetch latency per data kind and source path.
	FetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gustline_fetch_latency_seconds",
			Help:    "Fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind", "source"},
	)

	// BackendRetriesTotal counts retry attempts made by the request client.
	BackendRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gustline_backend_retries_total",
			Help: "Total number of backend request retries",
		},
	)

	// StreamReconnectsTotal counts streaming reconnect attempts.
	StreamReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gustline_stream_reconnects_total",
			Help: "Total number of stream reconnect attempts",
		},
	)

	// StreamMessagesTotal counts relayed streaming updates.
	StreamMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gustline_stream_messages_total",
			Help: "Total number of relayed stream updates",
		},
	)

	// CacheWritesTotal counts write-throughs to the local store per kind.
	CacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gustline_cache_writes_total",
			Help: "Total number of local store write-throughs",
		},
		[]string{"kind"},
	)

	// ArchiveInsertsTotal counts wind samples persisted to the archive.
	ArchiveInsertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gustline_archive_inserts_total",
			Help: "Total number of wind samples archived",
		},
	)
)
