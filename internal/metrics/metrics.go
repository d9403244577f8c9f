package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the ingestion and evaluation pipeline.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvlens",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cvlens",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvlens",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvlens",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	DocumentsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvlens",
			Name:      "documents_ingested_total",
			Help:      "Resume documents processed by the ingest pipeline",
		},
		[]string{"status"}, // "ok" / "error"
	)

	PagesExtractedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvlens",
			Name:      "pages_extracted_total",
			Help:      "Pages extracted, split by extraction method",
		},
		[]string{"method"}, // "digital" / "ocr" / "ocr_failed"
	)
)

var registered bool

// Register registers the pipeline metrics. Must be called once from the
// composition root (no init()).
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(DocumentsIngestedTotal)
	prometheus.MustRegister(PagesExtractedTotal)
	registered = true
}
