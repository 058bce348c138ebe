package metrics

import "github.com/prometheus/client_golang/prometheus"

// Resolution engine Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "intentd",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "embedding_errors_total",
			Help:      "Embedding request errors by reason",
		},
		[]string{"provider", "model", "reason"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "generation_requests_total",
			Help:      "Total number of generative-model requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "intentd",
			Name:      "generation_request_duration_seconds",
			Help:      "Generative-model request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider", "model"},
	)

	ExtractionOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "extraction_outcomes_total",
			Help:      "Constrained extraction outcomes per variant",
		},
		[]string{"variant", "outcome"}, // "ok" / "unparsable"
	)

	ExtractionWhitelistDropsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "extraction_whitelist_drops_total",
			Help:      "Items dropped because the model returned an id outside the candidate whitelist",
		},
		[]string{"variant"},
	)

	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intentd",
			Name:      "resolutions_total",
			Help:      "Resolution calls by input kind and outcome",
		},
		[]string{"kind", "outcome"}, // outcome: "ok" / "empty" / "degraded" / "error"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers resolution engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(ExtractionOutcomesTotal)
	prometheus.MustRegister(ExtractionWhitelistDropsTotal)
	prometheus.MustRegister(ResolutionsTotal)
	engineMetricsRegistered = true
}
