package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	EventsLoaded  prometheus.Gauge
	RowsDropped   *prometheus.CounterVec // label: reason={malformed,category,coordinates,timestamp}
	DownloadBytes prometheus.Counter

	BoundaryPieces prometheus.Gauge

	// Figure rendering metrics.
	FiguresBuilt        prometheus.Counter
	FigureBuildDuration prometheus.Histogram
	FigureCache         *prometheus.CounterVec // label: result={hit,miss}

	HTTPRequests *prometheus.CounterVec // labels: route, status
}

// NewMetrics creates and registers all dashboard metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.EventsLoaded,
		m.RowsDropped,
		m.DownloadBytes,
		m.BoundaryPieces,
		m.FiguresBuilt,
		m.FigureBuildDuration,
		m.FigureCache,
		m.HTTPRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tornado_dashboard",
			Name:      "events_loaded",
			Help:      "Cleaned event rows held in the in-memory store.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tornado_dashboard",
			Name:      "rows_dropped_total",
			Help:      "Source rows dropped during cleaning, by reason.",
		}, []string{"reason"}),
		DownloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tornado_dashboard",
			Name:      "dataset_download_bytes_total",
			Help:      "Bytes written while downloading the dataset.",
		}),
		BoundaryPieces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tornado_dashboard",
			Name:      "boundary_pieces",
			Help:      "Line pieces in the flattened county boundary network.",
		}),
		FiguresBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tornado_dashboard",
			Name:      "figures_built_total",
			Help:      "Map figures built (cache misses included, hits excluded).",
		}),
		FigureBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tornado_dashboard",
			Name:      "figure_build_duration_seconds",
			Help:      "Duration of a single figure build.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		FigureCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tornado_dashboard",
			Name:      "figure_cache_total",
			Help:      "Figure cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tornado_dashboard",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
	}
}
