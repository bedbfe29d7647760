// Package metrics instruments authorization, source queries and snapshot
// writes with Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes
const (
	OutcomeSample = "sample"
	OutcomeEmpty  = "empty"
	OutcomeError  = "error"
)

// Authorization outcomes
const (
	OutcomeGranted = "granted"
	OutcomeDenied  = "denied"
)

// Metrics holds all Prometheus collectors for a client. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	AuthorizationTotal  *prometheus.CounterVec
	QueriesTotal        *prometheus.CounterVec
	QueryDuration       *prometheus.HistogramVec
	SnapshotWritesTotal prometheus.Counter
	SnapshotEntries     prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg
// registers on a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		AuthorizationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthview",
			Name:      "authorization_total",
			Help:      "Authorization requests by outcome",
		}, []string{"outcome"}),
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healthview",
			Name:      "queries_total",
			Help:      "Health source queries by query and outcome",
		}, []string{"query", "outcome"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "healthview",
			Name:      "query_duration_seconds",
			Help:      "Health source query latency",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"query"}),
		SnapshotWritesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "healthview",
			Name:      "snapshot_writes_total",
			Help:      "Values applied to the snapshot",
		}),
		SnapshotEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "healthview",
			Name:      "snapshot_entries",
			Help:      "Keys currently held in the snapshot",
		}),
	}
}

func (m *Metrics) ObserveAuthorization(outcome string) {
	if m == nil {
		return
	}
	m.AuthorizationTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveQuery(query, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(query, outcome).Inc()
	m.QueryDuration.WithLabelValues(query).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveWrite(entries int) {
	if m == nil {
		return
	}
	m.SnapshotWritesTotal.Inc()
	m.SnapshotEntries.Set(float64(entries))
}
