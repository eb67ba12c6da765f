// Package metrics holds the prometheus collectors shared by the indexer
// and the query server, registered once at package init like the teacher
// pack's other prometheus-instrumented services.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// DocumentsIndexed counts documents successfully tokenized and
	// merged into the global table across all Build calls.
	DocumentsIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lexsearch_documents_indexed_total",
		Help: "Total number of documents successfully indexed.",
	})

	// DocumentsSkipped counts documents that failed to read or decode
	// and were excluded from the build.
	DocumentsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lexsearch_documents_skipped_total",
		Help: "Total number of documents skipped due to read or decode errors.",
	})

	// BuildDuration observes the wall-clock time of a full index build.
	BuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lexsearch_index_build_duration_seconds",
		Help:    "Duration of a full index build, in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// QueryDuration observes the wall-clock time of a single query,
	// from tokenization through top-k selection.
	QueryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lexsearch_query_duration_seconds",
		Help:    "Duration of a single query evaluation, in seconds.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(DocumentsIndexed, DocumentsSkipped, BuildDuration, QueryDuration)
}
