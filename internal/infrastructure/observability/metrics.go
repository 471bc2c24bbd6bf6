package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Repository calls by method and outcome.
	RepositoryCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_calls_total",
			Help: "Total number of repository method calls",
		},
		[]string{"method", "status"},
	)

	RepositoryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repository_duration_seconds",
			Help:    "Duration of repository method calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	EntryCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entry_cache_lookups_total",
			Help: "Entry cache lookups by result",
		},
		[]string{"result"},
	)

	ImportedEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imported_entries_total",
			Help: "Entries consumed from the import topic by outcome",
		},
		[]string{"outcome"},
	)
)

func InitMetrics(reg prometheus.Registerer) {
	reg.MustRegister(RepositoryCalls, RepositoryDuration, EntryCacheLookups, ImportedEntries)
}
