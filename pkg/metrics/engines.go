package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records outcomes and latency for the checkout and
// redemption engines.
type EngineMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_duration_seconds",
		Help:    "Duration of engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"engine"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_success",
		Help: "Successful engine operations.",
	}, []string{"engine"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_failure",
		Help: "Failed engine operations.",
	}, []string{"engine"})
	reg.MustRegister(duration, success, failure)
	return &EngineMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named engine.
func (e *EngineMetrics) ObserveDuration(engine string, duration time.Duration) {
	if e == nil || e.duration == nil {
		return
	}
	e.duration.WithLabelValues(normalizeLabel(engine)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named engine.
func (e *EngineMetrics) IncSuccess(engine string) {
	if e == nil || e.success == nil {
		return
	}
	e.success.WithLabelValues(normalizeLabel(engine)).Inc()
}

// IncFailure increments the failure counter for the named engine.
func (e *EngineMetrics) IncFailure(engine string) {
	if e == nil || e.failure == nil {
		return
	}
	e.failure.WithLabelValues(normalizeLabel(engine)).Inc()
}

func normalizeLabel(engine string) string {
	if engine == "" {
		return "unknown"
	}
	return engine
}
