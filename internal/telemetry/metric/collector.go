// Package metric provides Prometheus metrics for respkv.
package metric

import "github.com/prometheus/client_golang/prometheus"

// StoreStats is implemented by stores that can report their size.
type StoreStats interface {
	Len() int
	PendingExpirations() int
}

// StoreCollector reports store statistics at scrape time, so the hot path
// never touches a gauge.
type StoreCollector struct {
	stats    StoreStats
	keys     *prometheus.Desc
	deadline *prometheus.Desc
}

// NewStoreCollector creates a collector for the given store.
func NewStoreCollector(stats StoreStats) *StoreCollector {
	return &StoreCollector{
		stats: stats,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "keys"),
			"Number of keys currently held in the store",
			nil, nil,
		),
		deadline: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "pending_expirations"),
			"Number of keys with a scheduled expiration",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.deadline
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.stats.Len()))
	ch <- prometheus.MustNewConstMetric(c.deadline, prometheus.GaugeValue, float64(c.stats.PendingExpirations()))
}
