package region

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts tracer work. Counters are registered on the registerer
// passed to NewMetrics; a nil registerer keeps them private.
type Metrics struct {
	traces    prometheus.Counter
	steps     prometheus.Counter
	crossings *prometheus.CounterVec
	truncated prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		traces: f.NewCounter(prometheus.CounterOpts{
			Namespace: "semtrace",
			Subsystem: "region",
			Name:      "traces_total",
			Help:      "Segments traced through the region tree",
		}),
		steps: f.NewCounter(prometheus.CounterOpts{
			Namespace: "semtrace",
			Subsystem: "region",
			Name:      "steps_total",
			Help:      "Boundary searches performed while tracing",
		}),
		crossings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semtrace",
			Subsystem: "region",
			Name:      "crossings_total",
			Help:      "Material boundaries crossed, by material pair",
		}, []string{"from", "to"}),
		truncated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "semtrace",
			Subsystem: "region",
			Name:      "truncated_total",
			Help:      "Traces abandoned after too many boundary searches",
		}),
	}
}
