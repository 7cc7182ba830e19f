package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors the API updates.
type Metrics struct {
	compiles *prometheus.CounterVec
	queries  *prometheus.HistogramVec
	states   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regexfa_compiles_total",
				Help: "Pattern compilations by result (built, cached, error).",
			},
			[]string{"result"},
		),
		queries: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regexfa_query_duration_seconds",
				Help:    "Duration of API calls by operation, decoding, compilation and the query itself included.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
		states: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "regexfa_dfa_states",
			Help:    "Number of states of compiled DFAs.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(m.compiles, m.queries, m.states)
	return m
}
