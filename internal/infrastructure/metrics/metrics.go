package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "payments"
	subsystem = "gateway"
)

// ProviderMetrics records provider round trips in Prometheus.
type ProviderMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewProviderMetrics registers the collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewProviderMetrics(reg prometheus.Registerer) *ProviderMetrics {
	m := &ProviderMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "requests_total",
			Help: "Provider calls by operation, HTTP status and provider return code.",
		}, []string{"provider", "operation", "http_status", "return_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "request_duration_seconds",
			Help:    "Provider call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
	}
	reg.MustRegister(m.calls, m.latency)
	return m
}

func (m *ProviderMetrics) ObserveProviderCall(provider, operation string, httpStatus int, returnCode string, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "error"
	if httpStatus > 0 {
		status = strconv.Itoa(httpStatus)
	}
	if returnCode == "" {
		returnCode = "none"
	}
	m.calls.With(prometheus.Labels{
		"provider":    provider,
		"operation":   operation,
		"http_status": status,
		"return_code": returnCode,
	}).Inc()
	m.latency.With(prometheus.Labels{"provider": provider, "operation": operation}).Observe(elapsed.Seconds())
}
