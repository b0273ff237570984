// Package metrics owns the prometheus collectors for the data layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the registry every collector below is registered with.
	Registry = prometheus.NewRegistry()

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracklit_requests_total",
		Help: "Dispatched requests by type and outcome.",
	}, []string{"type", "ok"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tracklit_request_duration_seconds",
		Help:    "Time spent executing a dispatched request.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"type"})

	codecAnomalies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracklit_codec_anomalies_total",
		Help: "Stored JSON columns that failed to parse and fell back to a default.",
	}, []string{"table", "column"})

	gateAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracklit_gate_attempts_total",
		Help: "Exclusive lock acquisition attempts by result.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(requestsTotal, requestDuration, codecAnomalies, gateAttempts)
}

// ObserveRequest records one dispatched request.
func ObserveRequest(requestType string, ok bool, elapsed time.Duration) {
	outcome := "true"
	if !ok {
		outcome = "false"
	}
	requestsTotal.WithLabelValues(requestType, outcome).Inc()
	requestDuration.WithLabelValues(requestType).Observe(elapsed.Seconds())
}

// CodecAnomaly records a malformed JSON column.
func CodecAnomaly(table, column string) {
	codecAnomalies.WithLabelValues(table, column).Inc()
}

// GateAttempt records a lock attempt; result is "acquired" or "busy".
func GateAttempt(result string) {
	gateAttempts.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
