package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lumenlearn/recall-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchObserver = (*PrometheusObserver)(nil)

// PrometheusObserver implements driven.SearchObserver with Prometheus
// collectors. Registration happens against a provided Registerer so
// tests can use a fresh registry instead of the process-global default.
type PrometheusObserver struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	searchDuration prometheus.Histogram
	searchResults  prometheus.Histogram
	truncations    prometheus.Counter
	droppedChunks  prometheus.Counter
}

// NewPrometheusObserver creates and registers the search collectors
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recall_search_cache_hits_total",
			Help: "Searches served from the result cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recall_search_cache_misses_total",
			Help: "Searches that had to query the vector store",
		}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recall_search_duration_seconds",
			Help:    "Full search pass latency (cache misses only)",
			Buckets: prometheus.DefBuckets,
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recall_search_results",
			Help:    "Result count per completed search",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		}),
		truncations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recall_context_truncations_total",
			Help: "Context builds that hit the token budget",
		}),
		droppedChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recall_context_dropped_chunks_total",
			Help: "Chunks dropped by context budget cutoffs",
		}),
	}

	collectors := []prometheus.Collector{
		o.cacheHits, o.cacheMisses, o.searchDuration, o.searchResults, o.truncations, o.droppedChunks,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return o, nil
}

func (o *PrometheusObserver) CacheHit() {
	o.cacheHits.Inc()
}

func (o *PrometheusObserver) CacheMiss() {
	o.cacheMisses.Inc()
}

func (o *PrometheusObserver) SearchCompleted(took time.Duration, resultCount int) {
	o.searchDuration.Observe(took.Seconds())
	o.searchResults.Observe(float64(resultCount))
}

func (o *PrometheusObserver) ContextTruncated(droppedChunks int) {
	o.truncations.Inc()
	o.droppedChunks.Add(float64(droppedChunks))
}
