// Package observability holds the Prometheus metrics for the parcel
// pipeline and web server.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// parcel server.
type Metrics struct {
	ParcelsLoaded    prometheus.Gauge
	UnmatchedParcels prometheus.Gauge

	// Boundary query metrics.
	BoundaryQueries       *prometheus.CounterVec // labels: outcome={success,invalid,empty,error}
	BoundaryQueryDuration prometheus.Histogram
	BoundaryParcelsHit    prometheus.Histogram

	CSVDownloads prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ParcelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dcparcel",
			Name:      "parcels_loaded",
			Help:      "Geocoded parcels held in the current dataset snapshot.",
		}),
		UnmatchedParcels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dcparcel",
			Name:      "unmatched_parcels",
			Help:      "Parcels in the current snapshot with no address match.",
		}),
		BoundaryQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcparcel",
			Name:      "boundary_queries_total",
			Help:      "Boundary analysis requests by outcome.",
		}, []string{"outcome"}),
		BoundaryQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dcparcel",
			Name:      "boundary_query_duration_seconds",
			Help:      "Duration of a boundary filter and aggregation cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		BoundaryParcelsHit: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dcparcel",
			Name:      "boundary_parcels_hit",
			Help:      "Parcels matched per boundary query.",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
		CSVDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcparcel",
			Name:      "csv_downloads_total",
			Help:      "Detail CSV downloads served.",
		}),
	}

	prometheus.MustRegister(
		m.ParcelsLoaded,
		m.UnmatchedParcels,
		m.BoundaryQueries,
		m.BoundaryQueryDuration,
		m.BoundaryParcelsHit,
		m.CSVDownloads,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ParcelsLoaded:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "dcparcel", Name: "parcels_loaded"}),
		UnmatchedParcels:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "dcparcel", Name: "unmatched_parcels"}),
		BoundaryQueries:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dcparcel", Name: "boundary_queries_total"}, []string{"outcome"}),
		BoundaryQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "dcparcel", Name: "boundary_query_duration_seconds"}),
		BoundaryParcelsHit:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "dcparcel", Name: "boundary_parcels_hit"}),
		CSVDownloads:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "dcparcel", Name: "csv_downloads_total"}),
	}
}
