package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Request outcome label values.
const (
	outcomeOK     = "ok"
	outcomeStatus = "status_error"
	outcomeError  = "transport_error"
)

// Metrics records request counts and latencies on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates and registers the client collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindtool",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests by method, endpoint and outcome.",
		}, []string{"method", "endpoint", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mindtool",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency by method and endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
	m.registry.MustRegister(m.requests, m.latency)
	return m
}

// Registry exposes the underlying registry, e.g. for a /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(method, endpoint, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, endpoint, outcome).Inc()
	if outcome != outcomeError || elapsed > 0 {
		m.latency.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
	}
}

// RequestCounts returns the number of requests per outcome across all endpoints.
func (m *Metrics) RequestCounts() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != "mindtool_api_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			counts[labelValue(metric, "outcome")] += metric.GetCounter().GetValue()
		}
	}
	return counts, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
