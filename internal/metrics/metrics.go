// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for request handling and model invocation.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	modelAttempts   *prometheus.CounterVec
	modelDuration   *prometheus.HistogramVec
	bypassTotal     prometheus.Counter
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "email_analyzer",
			Name:      "requests_total",
			Help:      "Analysis requests by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "email_analyzer",
			Name:      "request_duration_seconds",
			Help:      "Request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		modelAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "email_analyzer",
			Name:      "model_attempts_total",
			Help:      "Model invocation attempts by chain, model and outcome.",
		}, []string{"chain", "model", "outcome"}),
		modelDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "email_analyzer",
			Name:      "model_attempt_duration_seconds",
			Help:      "Model invocation latency by chain and model.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"chain", "model"}),
		bypassTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "email_analyzer",
			Name:      "bypassed_senders_total",
			Help:      "Emails answered deterministically without a model call.",
		}),
	}
}

// ObserveRequest records one handled request.
func (m *Metrics) ObserveRequest(endpoint string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveModelAttempt records one model invocation attempt.
func (m *Metrics) ObserveModelAttempt(chain, model string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.modelAttempts.WithLabelValues(chain, model, outcome).Inc()
	m.modelDuration.WithLabelValues(chain, model).Observe(duration.Seconds())
}

// MarkBypass records an email answered without touching the model chain.
func (m *Metrics) MarkBypass() {
	m.bypassTotal.Inc()
}
