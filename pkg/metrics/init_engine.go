package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.EngineRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netprop_engine_runs_total",
			Help: "Engine runs by algorithm and outcome",
		},
		[]string{"algorithm", "status"},
	)

	r.EngineDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netprop_engine_duration_seconds",
			Help:    "Engine run duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"algorithm"},
	)

	r.EngineWarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netprop_engine_warnings_total",
			Help: "Non-fatal engine warnings by code",
		},
		[]string{"algorithm", "code"},
	)

	r.RWRIterations = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_rwr_iterations",
			Help: "Power iterations performed by the last RWR run",
		},
	)

	r.RWRResidual = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_rwr_residual",
			Help: "L1 change of the final RWR iteration",
		},
	)

	r.DiamondAdmitted = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_diamond_admitted_nodes",
			Help: "Nodes admitted to the module by the last DIAMOnD run",
		},
	)

	r.DiamondLastPValue = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_diamond_last_pvalue",
			Help: "Hypergeometric p-value of the last admitted node",
		},
	)
}
