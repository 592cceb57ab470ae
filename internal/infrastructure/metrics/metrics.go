package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Test generation service metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Generation outcomes by status and error code
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "generations_total",
			Help:      "Total test generation attempts",
		},
		[]string{"operation", "status", "error_code"},
	)

	// Model call duration
	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "model_call_duration_seconds",
			Help:      "Upstream model call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	// Token counters
	TokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "tokens_total",
			Help:      "Total tokens consumed by model calls",
		},
		[]string{"model", "kind"},
	)

	// Conversation lifecycle
	ConversationsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "conversations_started_total",
			Help:      "Total conversations started",
		},
	)

	ConversationsEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "conversations_evicted_total",
			Help:      "Conversations evicted over the per-owner capacity",
		},
	)

	ConversationsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "conversations_swept_total",
			Help:      "Conversations removed by the inactivity sweep",
		},
	)

	// Artifact persistence
	ArtifactsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "univade",
			Subsystem: "testgen",
			Name:      "artifacts_written_total",
			Help:      "Generated test artifacts written to disk",
		},
		[]string{"status"},
	)
)

// RecordRequest records metrics for a completed HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordGeneration records the outcome of one generation or refinement
func RecordGeneration(operation, status, errorCode string) {
	if errorCode == "" {
		errorCode = "none"
	}
	GenerationsTotal.WithLabelValues(operation, status, errorCode).Inc()
}

// RecordModelCall records the duration and token usage of a model call
func RecordModelCall(model string, durationSec float64, promptTokens, completionTokens int) {
	if model == "" {
		model = "unknown"
	}
	ModelCallDuration.WithLabelValues(model).Observe(durationSec)
	if promptTokens > 0 {
		TokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		TokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}

// RecordArtifact records an artifact write attempt
func RecordArtifact(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	ArtifactsWrittenTotal.WithLabelValues(status).Inc()
}
