// Package metrics exposes Prometheus counters for the scheduler daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "led_scheduler"

// Metrics holds the daemon's Prometheus collectors. A registry is injected so
// tests can use an isolated one.
type Metrics struct {
	Ticks             prometheus.Counter
	FetchFailures     prometheus.Counter
	RecordsSeen       prometheus.Counter
	MalformedRecords  prometheus.Counter
	Executions        *prometheus.CounterVec // by action
	ActuationFailures prometheus.Counter
	RecoveredTicks    prometheus.Counter
}

// New registers and returns the daemon's metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Ticks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Poll loop ticks executed.",
		}),
		FetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Schedule fetches that failed and degraded to an empty set.",
		}),
		RecordsSeen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_seen_total",
			Help:      "Schedule records evaluated across all ticks.",
		}),
		MalformedRecords: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_records_total",
			Help:      "Records skipped during flattening for missing or invalid fields.",
		}),
		Executions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Successful schedule executions.",
		}, []string{"action"}),
		ActuationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actuation_failures_total",
			Help:      "Actuator commands that failed; the schedule stays unmarked.",
		}),
		RecoveredTicks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovered_ticks_total",
			Help:      "Ticks abandoned after a recovered panic.",
		}),
	}
}
