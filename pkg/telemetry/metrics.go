// Package telemetry records per-run metrics and writes them in the Prometheus
// text format, suitable for a node_exporter textfile collector.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for point_runs_total.
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

type Recorder struct {
	reg       *prometheus.Registry
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	outPixels prometheus.Gauge
}

// NewRecorder builds a recorder backed by its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "point_runs_total",
			Help: "Filter runs by filter and outcome.",
		}, []string{"filter", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "point_transform_seconds",
			Help:    "Time spent inside the raster transform.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"filter"}),
		outPixels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "point_output_pixels",
			Help: "Pixel count of the last written image.",
		}),
	}
	r.reg.MustRegister(r.runs, r.duration, r.outPixels)
	return r
}

// ObserveTransform records one transform call.
func (r *Recorder) ObserveTransform(filter, outcome string, d time.Duration) {
	r.runs.WithLabelValues(filter, outcome).Inc()
	r.duration.WithLabelValues(filter).Observe(d.Seconds())
}

// SetOutputPixels records the size of the written image.
func (r *Recorder) SetOutputPixels(width, height int) {
	r.outPixels.Set(float64(width) * float64(height))
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteFile writes the current metrics to path atomically.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
