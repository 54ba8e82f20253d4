package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuthMetrics counts sign-in attempts by method and outcome.
type AuthMetrics struct {
	attempts *prometheus.CounterVec
}

// NewAuthMetrics registers the auth counters on the provided registerer.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Authentication attempts by method and outcome.",
	}, []string{"method", "outcome"})
	reg.MustRegister(attempts)
	return &AuthMetrics{attempts: attempts}
}

// Observe records one attempt for method. A nil err counts as success.
func (a *AuthMetrics) Observe(method string, err error) {
	if a == nil || a.attempts == nil {
		return
	}
	a.attempts.WithLabelValues(normalizeLabel(method), outcome(err)).Inc()
}

// CompletionMetrics records calls to the text completion upstream.
type CompletionMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	retries  prometheus.Counter
}

// NewCompletionMetrics registers the completion metrics on the provided registerer.
func NewCompletionMetrics(reg prometheus.Registerer) *CompletionMetrics {
	if reg == nil {
		return &CompletionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "completion_duration_seconds",
		Help:    "Duration of completion requests in seconds.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "completion_requests_total",
		Help: "Completion requests by operation and outcome.",
	}, []string{"operation", "outcome"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "completion_retries_total",
		Help: "Completion attempts retried after the upstream reported overload.",
	})
	reg.MustRegister(duration, requests, retries)
	return &CompletionMetrics{
		duration: duration,
		requests: requests,
		retries:  retries,
	}
}

// Observe records the duration and outcome of one operation.
func (c *CompletionMetrics) Observe(operation string, started time.Time, err error) {
	if c == nil || c.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	c.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	c.requests.WithLabelValues(op, outcome(err)).Inc()
}

func (c *CompletionMetrics) IncRetry() {
	if c == nil || c.retries == nil {
		return
	}
	c.retries.Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
