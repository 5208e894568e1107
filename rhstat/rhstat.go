// Package rhstat exposes a qchash table's bookkeeping as Prometheus
// metrics. It is ambient instrumentation: nothing in the qchash package
// itself depends on it.
package rhstat

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/daskie/qchash"
)

// Source is anything that can report a TableStats snapshot — both
// *qchash.Set[K] and *qchash.Map[K, V] satisfy it via their Stats method.
type Source interface {
	Stats() qchash.TableStats
}

// Collector adapts a Source to prometheus.Collector, under a constant
// label identifying which table a process-wide registry entry describes.
type Collector struct {
	source Source
	label  string

	size        *prometheus.Desc
	bucketCount *prometheus.Desc
	loadFactor  *prometheus.Desc
	rehashes    *prometheus.Desc
	maxProbe    *prometheus.Desc
}

// NewCollector builds a Collector over source, labeling every metric it
// reports with name (typically the table's variable name or role in the
// owning process).
func NewCollector(name string, source Source) *Collector {
	labels := prometheus.Labels{"table": name}
	return &Collector{
		source: source,
		label:  name,
		size: prometheus.NewDesc(
			"qchash_table_size", "Number of live entries.", nil, labels),
		bucketCount: prometheus.NewDesc(
			"qchash_table_bucket_count", "Current bucket array length.", nil, labels),
		loadFactor: prometheus.NewDesc(
			"qchash_table_load_factor", "size / bucket_count.", nil, labels),
		rehashes: prometheus.NewDesc(
			"qchash_table_rehashes_total", "Cumulative number of rehashes.", nil, labels),
		maxProbe: prometheus.NewDesc(
			"qchash_table_max_probe_distance", "Largest probe distance observed.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.bucketCount
	ch <- c.loadFactor
	ch <- c.rehashes
	ch <- c.maxProbe
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.bucketCount, prometheus.GaugeValue, float64(s.BucketCount))
	ch <- prometheus.MustNewConstMetric(c.loadFactor, prometheus.GaugeValue, s.LoadFactor)
	ch <- prometheus.MustNewConstMetric(c.rehashes, prometheus.CounterValue, float64(s.Rehashes))
	ch <- prometheus.MustNewConstMetric(c.maxProbe, prometheus.GaugeValue, float64(s.MaxProbe))
}
