// Package metrics counts what a batch run did and can dump the counters in
// the node_exporter textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Run holds the counters of one extraction run.
type Run struct {
	reg *prometheus.Registry

	Lines       prometheus.Counter
	Records     prometheus.Counter
	Skipped     prometheus.Counter
	Malformed   prometheus.Counter
	Dropped     prometheus.Counter
	Phrases     prometheus.Counter
	Duration    prometheus.Gauge
	LastSuccess prometheus.Gauge
}

// New registers a fresh set of counters for tool.
func New(tool string) *Run {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"tool": tool}
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "phrasex",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		reg.MustRegister(c)
		return c
	}
	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "phrasex",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		reg.MustRegister(g)
		return g
	}
	return &Run{
		reg:         reg,
		Lines:       counter("lines_total", "Corpus lines read."),
		Records:     counter("records_total", "Sentence pairs processed."),
		Skipped:     counter("skipped_lines_total", "Corpus lines skipped for a bad field count."),
		Malformed:   counter("malformed_alignment_tokens_total", "Alignment tokens that failed to parse."),
		Dropped:     counter("dropped_alignment_points_total", "Alignment points outside the sentence bounds."),
		Phrases:     counter("phrases_total", "Rows written."),
		Duration:    gauge("run_duration_seconds", "Wall time of the last run."),
		LastSuccess: gauge("last_success_timestamp_seconds", "Unix time the last run finished without error."),
	}
}

// Gatherer exposes the registry.
func (r *Run) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile atomically writes the counters to path.
func (r *Run) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
