// Package metrics provides Prometheus metrics collection for judegen sessions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for judegen.
type Collector struct {
	registry prometheus.Gatherer

	// Session metrics
	SessionsTotal   *prometheus.CounterVec
	SessionDuration prometheus.Histogram

	// Model metrics
	EntitiesTotal   *prometheus.CounterVec
	DocumentsLoaded prometheus.Gauge

	// Output metrics
	OutputsTotal *prometheus.CounterVec
}

// New creates a collector registered with the default Prometheus registry.
func New() *Collector {
	return newCollector(promauto.With(prometheus.DefaultRegisterer), prometheus.DefaultGatherer)
}

// NewWithRegistry creates a collector with a custom registry (useful for testing).
func NewWithRegistry(reg *prometheus.Registry) *Collector {
	return newCollector(promauto.With(reg), reg)
}

func newCollector(factory promauto.Factory, g prometheus.Gatherer) *Collector {
	return &Collector{
		registry: g,
		SessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "judegen",
				Name:      "sessions_total",
				Help:      "Total number of compile sessions by outcome",
			},
			[]string{"outcome"},
		),
		SessionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "judegen",
				Name:      "session_duration_seconds",
				Help:      "Compile session duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		EntitiesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "judegen",
				Name:      "entities_total",
				Help:      "Total number of resolved entities by kind",
			},
			[]string{"kind"},
		),
		DocumentsLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "judegen",
				Name:      "documents_loaded",
				Help:      "Number of documents loaded by the last session",
			},
		),
		OutputsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "judegen",
				Name:      "outputs_total",
				Help:      "Total number of output files by result",
			},
			[]string{"result"},
		),
	}
}

// Gatherer returns the registry the collector's metrics live in.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// RecordSession counts a finished session and observes its duration.
func (c *Collector) RecordSession(outcome string, d time.Duration) {
	c.SessionsTotal.WithLabelValues(outcome).Inc()
	c.SessionDuration.Observe(d.Seconds())
}

// RecordEntities adds n resolved entities of the given kind.
func (c *Collector) RecordEntities(kind string, n int) {
	if n <= 0 {
		return
	}
	c.EntitiesTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordDocuments sets the number of documents the last session loaded.
func (c *Collector) RecordDocuments(n int) {
	c.DocumentsLoaded.Set(float64(n))
}

// RecordWrite counts an output file as written or unchanged.
func (c *Collector) RecordWrite(written bool) {
	result := "unchanged"
	if written {
		result = "written"
	}
	c.OutputsTotal.WithLabelValues(result).Inc()
}

// WriteToTextfile dumps the collector's registry in the node_exporter
// textfile format.
func (c *Collector) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
