package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntriesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "txproc_entries_processed_total",
		Help: "Total number of log entries applied to every sink and acknowledged.",
	})

	EntriesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "txproc_entries_failed_total",
		Help: "Total number of log entries left unacknowledged after a failed apply.",
	})

	SinkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txproc_sink_failures_total",
		Help: "Total number of sink apply failures, labelled by sink.",
	}, []string{"sink"})

	EntryApplyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "txproc_entry_apply_duration_ms",
		Help:    "Full fan-out latency per log entry in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	EmbeddingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "txproc_embedding_duration_ms",
		Help:    "Embedding service round-trip latency in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	EntriesReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "txproc_entries_reclaimed_total",
		Help: "Total number of long-pending entries re-claimed and re-applied.",
	})

	EntriesDeadLettered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "txproc_entries_dead_lettered_total",
		Help: "Total number of entries moved to the dead-letter stream.",
	})
)
