// Package metrics exports dispatcher counters to Prometheus.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/philipp01105/logproxy/core"
	"github.com/philipp01105/logproxy/logger"
)

// Collector is a prometheus.Collector reading a StatsProvider on every
// scrape. Counts are not duplicated into Prometheus counters.
type Collector struct {
	provider   logger.StatsProvider
	forwarded  *prometheus.Desc
	suppressed *prometheus.Desc
	queueDepth *prometheus.Desc
}

// NewCollector creates a collector for provider with metric names prefixed
// by namespace. An empty namespace yields bare names.
func NewCollector(namespace string, provider logger.StatsProvider) *Collector {
	return &Collector{
		provider: provider,
		forwarded: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "messages_forwarded_total"),
			"Messages forwarded to the sink, by level.",
			[]string{"level"}, nil,
		),
		suppressed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "messages_suppressed_total"),
			"Messages rejected by the level filter, by level.",
			[]string{"level"}, nil,
		),
		queueDepth: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "async_queue_depth"),
			"Messages waiting for the asynchronous worker.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.forwarded
	ch <- c.suppressed
	ch <- c.queueDepth
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.provider.Stats()
	for _, level := range core.Levels {
		label := strings.ToLower(level.String())
		ch <- prometheus.MustNewConstMetric(c.forwarded, prometheus.CounterValue, float64(snap.Forwarded[level]), label)
		ch <- prometheus.MustNewConstMetric(c.suppressed, prometheus.CounterValue, float64(snap.Suppressed[level]), label)
	}
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(snap.QueueDepth))
}
