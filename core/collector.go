package glean

import "github.com/prometheus/client_golang/prometheus"

// selfCollector exposes the core instance's own health as Prometheus
// metrics (SPEC_FULL.md §4.4 expansion): queue depth, pre-init overflow,
// and storage errors, for the host process's own registry. These never
// appear in a ping payload — grounded directly on
// prometheus-pushgateway's own internalMetrics self-instrumentation in
// main.go, the same
// Describe/Collect-over-a-slice-of-descriptors shape generalized from
// runtime.MemStats fields to Glean's own internals.
type selfCollector struct {
	g *Glean

	queueDepth     *prometheus.Desc
	preInitDropped *prometheus.Desc
	storageErrors  *prometheus.Desc
}

func newSelfCollector(g *Glean) *selfCollector {
	return &selfCollector{
		g: g,
		queueDepth: prometheus.NewDesc(
			"glean_dispatcher_queue_depth",
			"Number of tasks currently waiting in the dispatcher's live queue.",
			nil, nil,
		),
		preInitDropped: prometheus.NewDesc(
			"glean_preinit_overflow_total",
			"Total pre-init tasks dropped because the pre-init buffer was full.",
			nil, nil,
		),
		storageErrors: prometheus.NewDesc(
			"glean_storage_errors_total",
			"Total storage errors encountered persisting or collecting pings.",
			nil, nil,
		),
	}
}

func (c *selfCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queueDepth
	ch <- c.preInitDropped
	ch <- c.storageErrors
}

func (c *selfCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(c.g.dispatcher.QueueDepth()))
	ch <- prometheus.MustNewConstMetric(c.preInitDropped, prometheus.CounterValue, float64(c.g.dispatcher.PreInitOverflowCount()))
	ch <- prometheus.MustNewConstMetric(c.storageErrors, prometheus.CounterValue, float64(c.g.storageErrors.Load()))
}
