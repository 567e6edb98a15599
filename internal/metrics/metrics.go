// Package metrics exports frame loop, pass and grid measurements to
// Prometheus.
//
// Metrics:
//   - quickfps_frame_step_seconds: histogram of simulated step sizes
//   - quickfps_frame_elapsed_seconds: histogram of wall time between frames
//   - quickfps_frames_clamped_total: steps capped at the maximum step
//   - quickfps_simulated_seconds_total: simulated time
//   - quickfps_entities: live entities
//   - quickfps_pass_duration_seconds{pass}: histogram of pass execution time
//   - quickfps_pass_components{pass}: components scheduled in a pass
//   - quickfps_grid_clients: registered spatial grid clients
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plus3/quickfps/ecs"
	"github.com/plus3/quickfps/frameloop"
)

const namespace = "quickfps"

// GridSizer reports the number of spatial grid clients.
type GridSizer interface {
	Len() int
}

// Recorder implements ecs.PassObserver and frameloop.Observer. Its observe
// methods run on the frame loop; scraping happens on the HTTP goroutine and
// only touches the collectors.
type Recorder struct {
	frameStep      prometheus.Histogram
	frameElapsed   prometheus.Histogram
	clamped        prometheus.Counter
	simulated      prometheus.Counter
	entities       prometheus.Gauge
	passDuration   *prometheus.HistogramVec
	passComponents *prometheus.GaugeVec
	gridClients    prometheus.Gauge

	grid GridSizer
}

var (
	_ ecs.PassObserver   = (*Recorder)(nil)
	_ frameloop.Observer = (*Recorder)(nil)
)

// NewRecorder creates the collectors and registers them with reg. grid may
// be nil.
func NewRecorder(reg prometheus.Registerer, grid GridSizer) *Recorder {
	frameBuckets := []float64{0.001, 0.004, 0.008, 0.016, 0.025, 1.0 / 30, 0.05, 0.1, 0.25, 1}
	r := &Recorder{
		frameStep: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_step_seconds",
			Help:      "Simulated step size per frame.",
			Buckets:   frameBuckets,
		}),
		frameElapsed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_elapsed_seconds",
			Help:      "Wall time between frames before clamping.",
			Buckets:   frameBuckets,
		}),
		clamped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_clamped_total",
			Help:      "Frames whose step was capped at the maximum step.",
		}),
		simulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_seconds_total",
			Help:      "Total simulated time.",
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Live entities.",
		}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Execution time of a pass.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"pass"}),
		passComponents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pass_components",
			Help:      "Components scheduled in a pass.",
		}, []string{"pass"}),
		gridClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "grid_clients",
			Help:      "Registered spatial grid clients.",
		}),
		grid: grid,
	}

	reg.MustRegister(
		r.frameStep,
		r.frameElapsed,
		r.clamped,
		r.simulated,
		r.entities,
		r.passDuration,
		r.passComponents,
		r.gridClients,
	)
	return r
}

// TrackGrid sets the grid whose size is sampled on every frame.
func (r *Recorder) TrackGrid(grid GridSizer) {
	r.grid = grid
}

// ObserveFrame records one frame loop step.
func (r *Recorder) ObserveFrame(stats frameloop.FrameStats) {
	r.frameStep.Observe(stats.Step.Seconds())
	r.frameElapsed.Observe(stats.Elapsed.Seconds())
	r.simulated.Add(stats.Step.Seconds())
	if stats.Clamped {
		r.clamped.Inc()
	}
	r.entities.Set(float64(stats.Entities))
	if r.grid != nil {
		r.gridClients.Set(float64(r.grid.Len()))
	}
}

// ObservePass records one pass execution.
func (r *Recorder) ObservePass(stats ecs.PassStats) {
	label := stats.Pass.String()
	r.passDuration.WithLabelValues(label).Observe(stats.LastDuration.Seconds())
	r.passComponents.WithLabelValues(label).Set(float64(stats.Components))
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
