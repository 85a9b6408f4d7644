// Package metric provides Prometheus metrics for respkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, typed recorders and HTTP handler
//   - collector.go: scrape-time collector for store statistics
//
// Metrics include:
//
//   - Connection gauges and counters
//   - Command counters and latency histograms
//   - Protocol error counters
//   - Key and expiration statistics
//
// Metrics are exposed at /metrics in Prometheus format.
//
// All recorder methods are safe to call on a nil *Registry, so components
// can run without metrics wired in.
package metric
