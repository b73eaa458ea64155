package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the wizard core.
//
// All metrics are prefixed with "scribe_". A nil *Metrics is valid and
// records nothing, so components can be built without a registry in tests.
//
// Metrics:
//   - scribe_storage_degraded_total{op} - writes that fell back to memory
//   - scribe_external_calls_total{service,op,outcome} - provider calls
//   - scribe_external_call_duration_seconds{service,op} - provider latency
//   - scribe_step_transitions_total{step} - successful wizard navigation
//   - scribe_step_rejections_total{step} - navigation refused by gating
type Metrics struct {
	StorageDegradedTotal *prometheus.CounterVec
	ExternalCallsTotal   *prometheus.CounterVec
	ExternalCallDuration *prometheus.HistogramVec
	StepTransitionsTotal *prometheus.CounterVec
	StepRejectionsTotal  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StorageDegradedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_storage_degraded_total",
				Help: "Total number of storage operations that degraded to the in-memory fallback",
			},
			[]string{"op"}, // "open", "set" or "remove"
		),
		ExternalCallsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_external_calls_total",
				Help: "Total number of calls to external providers",
			},
			[]string{"service", "op", "outcome"},
		),
		ExternalCallDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scribe_external_call_duration_seconds",
				Help:    "Duration of external provider calls in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"service", "op"},
		),
		StepTransitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_step_transitions_total",
				Help: "Total number of wizard step transitions",
			},
			[]string{"step"},
		),
		StepRejectionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_step_rejections_total",
				Help: "Total number of navigation attempts refused because the step was not reachable",
			},
			[]string{"step"},
		),
	}
}

func (m *Metrics) StorageDegraded(op string) {
	if m == nil {
		return
	}
	m.StorageDegradedTotal.WithLabelValues(op).Inc()
}

// ObserveExternal records the outcome and latency of a provider call.
func (m *Metrics) ObserveExternal(service, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ExternalCallsTotal.WithLabelValues(service, op, outcome).Inc()
	m.ExternalCallDuration.WithLabelValues(service, op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) StepTransition(step string) {
	if m == nil {
		return
	}
	m.StepTransitionsTotal.WithLabelValues(step).Inc()
}

func (m *Metrics) StepRejected(step string) {
	if m == nil {
		return
	}
	m.StepRejectionsTotal.WithLabelValues(step).Inc()
}
