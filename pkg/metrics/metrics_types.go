package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for one propagation run
type Registry struct {
	// Network Metrics
	NetworkNodes        prometheus.Gauge
	NetworkEdges        prometheus.Gauge
	NetworkIsolated     prometheus.Gauge
	NetworkComponents   prometheus.Gauge
	NetworkRowsSkipped  *prometheus.CounterVec
	NetworkLoadDuration prometheus.Histogram

	// Seed Metrics
	SeedsResolved   prometheus.Gauge
	SeedsUnresolved *prometheus.GaugeVec

	// Engine Metrics
	EngineRunsTotal     *prometheus.CounterVec
	EngineDuration      *prometheus.HistogramVec
	EngineWarningsTotal *prometheus.CounterVec
	RWRIterations       prometheus.Gauge
	RWRResidual         prometheus.Gauge
	DiamondAdmitted     prometheus.Gauge
	DiamondLastPValue   prometheus.Gauge

	// System Metrics
	RunInfo          *prometheus.GaugeVec
	RunStartTime     prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initNetworkMetrics()
	r.initSeedMetrics()
	r.initEngineMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
