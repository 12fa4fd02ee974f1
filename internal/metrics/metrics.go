// Package metrics exposes Prometheus instrumentation for the Zentrol
// pipeline. All metrics are advisory observers; nothing in the gesture path
// depends on them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	FramesProcessed prometheus.Counter
	FrameLatency    prometheus.Histogram
	FPS             prometheus.Gauge
	GesturesFired   *prometheus.CounterVec
	DeliveryErrors  *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zentrol",
			Name:      "frames_processed_total",
			Help:      "Frames run through the gesture pipeline.",
		}),
		FrameLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zentrol",
			Name:      "frame_latency_seconds",
			Help:      "Per-frame processing latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		FPS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "zentrol",
			Name:      "fps",
			Help:      "Frames processed per second over the last window.",
		}),
		GesturesFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zentrol",
			Name:      "gestures_fired_total",
			Help:      "Fired gesture events by pose.",
		}, []string{"pose"}),
		DeliveryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zentrol",
			Name:      "delivery_errors_total",
			Help:      "Failed event deliveries by sink.",
		}, []string{"sink"}),
	}

	m.registry.MustRegister(
		m.FramesProcessed,
		m.FrameLatency,
		m.FPS,
		m.GesturesFired,
		m.DeliveryErrors,
	)

	return m
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
