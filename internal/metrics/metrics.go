// Package metrics exports scan and world counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Faultbox/voxelmap/internal/minimap"
)

const namespace = "voxelmap"

// Collector records minimap activity. All methods are safe for concurrent
// use.
type Collector struct {
	scanDuration prometheus.Histogram
	cells        *prometheus.CounterVec
	ticks        prometheus.Counter
	generated    prometheus.Counter
	worlds       prometheus.Counter
	lastSeq      prometheus.Gauge
}

// New creates a collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Time spent scanning the raster per tick.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		cells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_cells_total",
			Help:      "Raster cells by scan outcome.",
		}, []string{"outcome"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks that ran a scan.",
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Chunks produced by the terrain generator.",
		}),
		worlds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "world_changes_total",
			Help:      "World or dimension switches that reset the raster.",
		}),
		lastSeq: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "published_raster_sequence",
			Help:      "Sequence number of the last published raster.",
		}),
	}

	reg.MustRegister(c.scanDuration, c.cells, c.ticks, c.generated, c.worlds, c.lastSeq)
	return c
}

// ObserveScan records one completed scan.
func (c *Collector) ObserveScan(d time.Duration, st minimap.Stats, seq uint64) {
	c.ticks.Inc()
	c.scanDuration.Observe(d.Seconds())
	c.cells.WithLabelValues("written").Add(float64(st.Written))
	c.cells.WithLabelValues("skipped").Add(float64(st.Skipped))
	c.cells.WithLabelValues("void").Add(float64(st.Void))
	c.cells.WithLabelValues("dark").Add(float64(st.Dark))
	c.lastSeq.Set(float64(seq))
}

// ObserveGenerated records chunks produced by the terrain generator.
func (c *Collector) ObserveGenerated(n int) {
	c.generated.Add(float64(n))
}

// ObserveWorldChange records a world or dimension switch.
func (c *Collector) ObserveWorldChange() {
	c.worlds.Inc()
}

// RegisterGauge exposes a value sampled at scrape time, such as decoder
// counters owned by a world backend.
func RegisterGauge(reg prometheus.Registerer, name, help string, fn func() float64) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}
