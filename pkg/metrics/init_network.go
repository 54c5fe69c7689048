package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNetworkMetrics() {
	r.NetworkNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_network_nodes",
			Help: "Number of nodes in the loaded network, isolated ones included",
		},
	)

	r.NetworkEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_network_edges",
			Help: "Number of undirected edges in the loaded network",
		},
	)

	r.NetworkIsolated = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_network_isolated_nodes",
			Help: "Nodes left without edges after filtering",
		},
	)

	r.NetworkComponents = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_network_components",
			Help: "Connected components among the active nodes",
		},
	)

	r.NetworkRowsSkipped = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netprop_network_rows_skipped_total",
			Help: "Edge table rows that did not become edges",
		},
		[]string{"reason"},
	)

	r.NetworkLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netprop_network_load_duration_seconds",
			Help:    "Time spent reading and building the network",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)
}

func (r *Registry) initSeedMetrics() {
	r.SeedsResolved = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netprop_seeds_resolved",
			Help: "Seed identifiers mapped onto active network nodes",
		},
	)

	r.SeedsUnresolved = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netprop_seeds_unresolved",
			Help: "Seed identifiers that could not be used, by reason",
		},
		[]string{"reason"},
	)
}
