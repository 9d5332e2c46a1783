package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"layerscope/internal/dissect"
)

// Collector counts dissection outcomes.
type Collector struct {
	frames     prometheus.Counter
	layers     *prometheus.CounterVec
	stops      *prometheus.CounterVec
	frameBytes prometheus.Histogram
}

// New creates a Collector and registers it with reg. A nil reg leaves the
// metrics unregistered.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "layerscope",
			Name:      "frames_total",
			Help:      "Frames dissected.",
		}),
		layers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "layerscope",
			Name:      "layers_total",
			Help:      "Decoded layers by tier and protocol name.",
		}, []string{"tier", "protocol"}),
		stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "layerscope",
			Name:      "stops_total",
			Help:      "Dissections by the reason they ended.",
		}, []string{"reason"}),
		frameBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "layerscope",
			Name:      "frame_bytes",
			Help:      "Captured length of dissected frames.",
			Buckets:   []float64{64, 128, 256, 512, 1024, 1518, 4096, 9000},
		}),
	}
	if reg != nil {
		reg.MustRegister(c.frames, c.layers, c.stops, c.frameBytes)
	}
	return c
}

// Observe records one dissected frame.
func (c *Collector) Observe(f dissect.Frame, res dissect.Result) {
	c.frames.Inc()
	c.frameBytes.Observe(float64(len(f.Bytes())))
	c.stops.WithLabelValues(res.Stop.String()).Inc()
	for _, l := range res.Layers {
		c.layers.WithLabelValues(l.Tier().String(), l.Name()).Inc()
	}
}
