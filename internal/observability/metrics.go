package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fetch-normalize-query pipeline.
type Metrics struct {
	FetchRequests *prometheus.CounterVec // labels: outcome={success,http_error,decode_error,transport_error}
	FetchDuration prometheus.Histogram

	SnapshotRefreshes   *prometheus.CounterVec // labels: result={success,error}
	SnapshotCountries   prometheus.Gauge
	SnapshotLastRefresh prometheus.Gauge

	QueriesServed *prometheus.CounterVec // labels: operation={list,top,filter,lookup,stats,extremes}

	KafkaRecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.SnapshotRefreshes,
		m.SnapshotCountries,
		m.SnapshotLastRefresh,
		m.QueriesServed,
		m.KafkaRecordsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// parallel tests don't trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "country_api",
			Name:      "fetch_requests_total",
			Help:      "REST Countries fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "country_api",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of REST Countries fetch requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "country_api",
			Name:      "snapshot_refreshes_total",
			Help:      "Snapshot refresh cycles by result.",
		}, []string{"result"}),
		SnapshotCountries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "country_api",
			Name:      "snapshot_countries",
			Help:      "Number of canonical records in the current snapshot.",
		}),
		SnapshotLastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "country_api",
			Name:      "snapshot_last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful snapshot refresh.",
		}),
		QueriesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "country_api",
			Name:      "queries_served_total",
			Help:      "Analytical queries served by operation.",
		}, []string{"operation"}),
		KafkaRecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "country_api",
			Name:      "kafka_records_published_total",
			Help:      "Canonical records published to the sink topic.",
		}),
	}
}
