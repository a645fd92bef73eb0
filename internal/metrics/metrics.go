// Package metrics collects engine counters on a per-instance prometheus
// registry. Nothing is served over the network; embedders that want scraping
// can wire Gatherer() into their own exporter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the storage engine.
type Metrics struct {
	registry *prometheus.Registry

	RecordsWritten prometheus.Counter
	Reads          prometheus.Counter
	ReadMisses     prometheus.Counter
	Rotations      prometheus.Counter
	ReplaySkipped  prometheus.Counter

	SegmentCount       prometheus.Gauge
	ActiveSegmentBytes prometheus.Gauge
}

// New creates a Metrics instance backed by its own registry, so multiple
// engines in one process never collide on registration.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flintdb",
			Name:      "records_written_total",
			Help:      "Records appended across all segments.",
		}),
		Reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flintdb",
			Name:      "reads_total",
			Help:      "Point lookups served.",
		}),
		ReadMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flintdb",
			Name:      "read_misses_total",
			Help:      "Point lookups that found no key in any segment.",
		}),
		Rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flintdb",
			Name:      "segment_rotations_total",
			Help:      "Times the active segment was sealed and a new one created.",
		}),
		ReplaySkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flintdb",
			Name:      "replay_skipped_records_total",
			Help:      "Corrupt records dropped while rebuilding indexes on open.",
		}),
		SegmentCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flintdb",
			Name:      "segments",
			Help:      "Segments currently owned by the engine.",
		}),
		ActiveSegmentBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flintdb",
			Name:      "active_segment_bytes",
			Help:      "Size of the active segment file.",
		}),
	}

	m.registry.MustRegister(
		m.RecordsWritten,
		m.Reads,
		m.ReadMisses,
		m.Rotations,
		m.ReplaySkipped,
		m.SegmentCount,
		m.ActiveSegmentBytes,
	)
	return m
}

// Gatherer exposes the underlying registry for embedders.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }
