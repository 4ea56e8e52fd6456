// Package metrics exposes Prometheus collectors for actuacion workflow activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/defensoria/expedientes/internal/domain"
	"github.com/defensoria/expedientes/internal/events"
)

const namespace = "expedientes"

// Metrics owns a private registry so tests and multiple servers never collide on the default one.
type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

// New registers the workflow collectors. pending reports the current para-firmar count and may be nil.
func New(pending func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actuacion_transitions_total",
			Help:      "Actuacion status changes by old and new status.",
		}, []string{"from", "to"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by method and status code.",
		}, []string{"method", "code"}),
	}
	reg.MustRegister(
		m.transitions,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if pending != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "actuaciones_pending_signature",
			Help:      "Actuaciones currently waiting in para-firmar.",
		}, func() float64 { return float64(pending()) }))
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTransition counts one actuacion status change.
func (m *Metrics) ObserveTransition(change domain.ActuacionStatusChanged) {
	m.transitions.WithLabelValues(string(change.OldStatus), string(change.NewStatus)).Inc()
}

// Attach subscribes the transition counter to bus. The returned func detaches it.
func (m *Metrics) Attach(bus *events.Bus[domain.ActuacionStatusChanged]) func() {
	return bus.Subscribe(m.ObserveTransition)
}

// Instrument wraps next with the request counter.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.requests, next)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
