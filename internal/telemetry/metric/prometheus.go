// Package metric provides Prometheus metrics for respkv.
package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "respkv"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectionsActive   prometheus.Gauge
	ConnectionsAccepted prometheus.Counter
	AcceptErrors        prometheus.Counter

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	ProtocolErrors  *prometheus.CounterVec

	// Store metrics
	KeysExpired prometheus.Counter
}

// NewRegistry creates a registry with the Go and process collectors and
// every respkv metric registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of open client connections",
		}),
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted client connections",
		}),
		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accept_errors_total",
			Help:      "Total number of failed accepts on the listener",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of commands processed",
		}, []string{"command", "result"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution time including the reply flush",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
		}, []string{"command"}),
		ProtocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Connections closed because of malformed input",
		}, []string{"kind"}),
		KeysExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keys_expired_total",
			Help:      "Total number of keys removed by the reclamation task",
		}),
	}

	reg.MustRegister(
		r.ConnectionsActive,
		r.ConnectionsAccepted,
		r.AcceptErrors,
		r.CommandsTotal,
		r.CommandDuration,
		r.ProtocolErrors,
		r.KeysExpired,
	)

	return r
}

// MustRegister registers additional collectors, such as a StoreCollector.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	if r == nil {
		return
	}
	r.registry.MustRegister(cs...)
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// IncConnections records a newly accepted connection.
func (r *Registry) IncConnections() {
	if r == nil {
		return
	}
	r.ConnectionsAccepted.Inc()
	r.ConnectionsActive.Inc()
}

// DecConnections records a closed connection.
func (r *Registry) DecConnections() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// IncAcceptErrors records a failed accept.
func (r *Registry) IncAcceptErrors() {
	if r == nil {
		return
	}
	r.AcceptErrors.Inc()
}

// RecordCommand counts one executed command. result is "ok" or "error".
func (r *Registry) RecordCommand(command, result string) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(command, result).Inc()
}

// ObserveCommandDuration records how long a command took.
func (r *Registry) ObserveCommandDuration(command string, seconds float64) {
	if r == nil {
		return
	}
	r.CommandDuration.WithLabelValues(command).Observe(seconds)
}

// RecordProtocolError counts a connection dropped for malformed input.
func (r *Registry) RecordProtocolError(kind string) {
	if r == nil {
		return
	}
	r.ProtocolErrors.WithLabelValues(kind).Inc()
}

// AddKeysExpired counts keys purged by the reclamation task.
func (r *Registry) AddKeysExpired(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.KeysExpired.Add(float64(n))
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns the HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
