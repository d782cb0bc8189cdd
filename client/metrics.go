package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the counters/timer contract the executor reports through,
// tagged by {tc-service, tc-action} per call (§4.J.8).
type Metrics interface {
	IncRequests(service, action string)
	IncErrors(service, action string)
	ObserveDuration(service, action string, d time.Duration)
}

// PrometheusMetrics is the default Metrics implementation, registering
// tc_requests_total, tc_request_errors, and tc_request_duration against
// the given registerer.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusMetrics constructs and registers the three collectors
// against reg. Pass prometheus.DefaultRegisterer for the global registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tc_requests_total",
			Help: "Total number of API requests attempted.",
		}, []string{"tc_service", "tc_action"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tc_request_errors",
			Help: "Total number of API requests that ultimately failed.",
		}, []string{"tc_service", "tc_action"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "tc_request_duration",
			Help: "Observed duration of a complete API call, including retries.",
		}, []string{"tc_service", "tc_action"}),
	}
	reg.MustRegister(m.requests, m.errors, m.duration)
	return m
}

func (m *PrometheusMetrics) IncRequests(service, action string) {
	m.requests.WithLabelValues(service, action).Inc()
}

func (m *PrometheusMetrics) IncErrors(service, action string) {
	m.errors.WithLabelValues(service, action).Inc()
}

func (m *PrometheusMetrics) ObserveDuration(service, action string, d time.Duration) {
	m.duration.WithLabelValues(service, action).Observe(d.Seconds())
}

// NopMetrics discards every observation, the default when a Client is
// constructed with no Metrics option.
type NopMetrics struct{}

func (NopMetrics) IncRequests(string, string) {}
func (NopMetrics) IncErrors(string, string) {}
func (NopMetrics) ObserveDuration(string, string, time.Duration) {}
