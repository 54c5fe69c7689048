// Package metrics exposes run metrics on a private Prometheus registry and
// writes them in the text exposition format for node_exporter's textfile
// collector.
package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordNetwork records the shape of the loaded network
func (r *Registry) RecordNetwork(nodes, edges, isolated, components int, duration time.Duration) {
	r.NetworkNodes.Set(float64(nodes))
	r.NetworkEdges.Set(float64(edges))
	r.NetworkIsolated.Set(float64(isolated))
	r.NetworkComponents.Set(float64(components))
	r.NetworkLoadDuration.Observe(duration.Seconds())
}

// RecordSkippedRows adds skipped edge rows by reason
func (r *Registry) RecordSkippedRows(reason string, n int) {
	if n <= 0 {
		return
	}
	r.NetworkRowsSkipped.WithLabelValues(reason).Add(float64(n))
}

// RecordSeeds records seed resolution; unresolved counts are keyed by reason
func (r *Registry) RecordSeeds(resolved int, unresolved map[string]int) {
	r.SeedsResolved.Set(float64(resolved))
	for reason, n := range unresolved {
		r.SeedsUnresolved.WithLabelValues(reason).Set(float64(n))
	}
}

// RecordEngineRun records one engine run with its outcome
func (r *Registry) RecordEngineRun(algorithm, status string, duration time.Duration) {
	r.EngineRunsTotal.WithLabelValues(algorithm, status).Inc()
	r.EngineDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordWarning counts a non-fatal engine warning
func (r *Registry) RecordWarning(algorithm, code string) {
	r.EngineWarningsTotal.WithLabelValues(algorithm, code).Inc()
}

// RecordRWR records convergence details of an RWR run
func (r *Registry) RecordRWR(iterations int, residual float64) {
	r.RWRIterations.Set(float64(iterations))
	r.RWRResidual.Set(residual)
}

// RecordDiamond records the outcome of a DIAMOnD run
func (r *Registry) RecordDiamond(admitted int, lastPValue float64) {
	r.DiamondAdmitted.Set(float64(admitted))
	if admitted > 0 {
		r.DiamondLastPValue.Set(lastPValue)
	}
}

// SetRunInfo labels the registry with the run identity
func (r *Registry) SetRunInfo(runID, algorithm string, started time.Time) {
	r.RunInfo.WithLabelValues(runID, algorithm).Set(1)
	r.RunStartTime.Set(float64(started.Unix()))
}

// UpdateSystemMetrics samples the Go runtime
func (r *Registry) UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(ms.Alloc))
	r.MemorySysBytes.Set(float64(ms.Sys))
}

// WriteTextfile gathers the registry and writes it atomically to path
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
