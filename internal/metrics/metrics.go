// Package metrics exposes Prometheus collectors for partition fetches and normalization.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Partition fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	PartitionFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propertyiq_partition_fetches_total",
			Help: "Total number of partition fetches by outcome.",
		},
		[]string{"outcome"},
	)
	PartitionFetchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "propertyiq_partition_fetch_seconds",
			Help:    "Duration of partition fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	RecordsNormalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propertyiq_records_normalized_total",
			Help: "Total number of records normalized by status.",
		},
		[]string{"status"},
	)
	PriceResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propertyiq_price_resolutions_total",
			Help: "Total number of prices resolved by source.",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(PartitionFetches)
	prometheus.MustRegister(PartitionFetchSeconds)
	prometheus.MustRegister(RecordsNormalized)
	prometheus.MustRegister(PriceResolutions)
}

// ObservePartitionFetch records one partition fetch.
func ObservePartitionFetch(err error, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}

	PartitionFetches.WithLabelValues(outcome).Inc()
	PartitionFetchSeconds.Observe(elapsed.Seconds())
}

// ObserveNormalization records one normalized record and where its price came from.
func ObserveNormalization(status, priceSource string) {
	RecordsNormalized.WithLabelValues(status).Inc()

	if priceSource != "" {
		PriceResolutions.WithLabelValues(priceSource).Inc()
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer serves /metrics on addr until the listener fails.
func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server.ListenAndServe()
}
