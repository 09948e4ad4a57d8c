package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the chat API.
type Metrics struct {
	TurnsTotal    *prometheus.CounterVec
	TurnDuration  prometheus.Histogram
	RequestErrors *prometheus.CounterVec
}

// NewMetrics registers the chat API metrics with the given registerer.
// Passing a fresh registry keeps tests independent; production uses
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TurnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navi",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Completed chat turns by outcome.",
		}, []string{"status"}),
		TurnDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navi",
			Subsystem: "chat",
			Name:      "turn_duration_seconds",
			Help:      "End-to-end latency of a chat turn, tool rounds included.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		RequestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navi",
			Subsystem: "http",
			Name:      "request_errors_total",
			Help:      "Rejected chat API requests by reason.",
		}, []string{"reason"}),
	}
}
