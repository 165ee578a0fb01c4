package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors used by the ERP client, session manager and fetcher.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	retries       *prometheus.CounterVec
	logins        prometheus.Counter
	batchDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "erp_requests_total",
				Help:      "Total number of ERP call attempts by classified outcome.",
			},
			[]string{"endpoint", "outcome"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "erp_retries_total",
				Help:      "Total number of ERP call retries by reason.",
			},
			[]string{"reason"},
		),
		logins: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "erp_logins_total",
				Help:      "Total number of ERP authentications performed.",
			},
		),
		batchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_batch_duration_seconds",
				Help:      "Duration of batch fetches in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(m.requests, m.retries, m.logins, m.batchDuration)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an http.Handler serving the registry in Prometheus format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records the outcome of one ERP call attempt.
func (m *Metrics) ObserveRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveRetry records one retry.
func (m *Metrics) ObserveRetry(reason string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(reason).Inc()
}

// ObserveLogin records one authentication.
func (m *Metrics) ObserveLogin() {
	if m == nil {
		return
	}
	m.logins.Inc()
}

// ObserveBatch records the duration of a batch fetch.
func (m *Metrics) ObserveBatch(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.WithLabelValues(kind).Observe(d.Seconds())
}
