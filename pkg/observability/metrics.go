package observability

import (
	"github.com/aretw0/txtree"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of txtree_transactions_total.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

// Metrics holds the collectors fed by Hooks.
type Metrics struct {
	Begun              prometheus.Counter
	Transactions       *prometheus.CounterVec
	ValidationFailures prometheus.Counter
	Duration           prometheus.Histogram
	Participants       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Begun: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txtree_transactions_begun_total",
			Help: "Total number of transactions begun.",
		}),
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "txtree_transactions_total",
			Help: "Total number of finished transactions by outcome.",
		}, []string{"outcome"}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txtree_validation_failures_total",
			Help: "Total number of commits vetoed by a participant.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "txtree_transaction_duration_seconds",
			Help:    "Time from begin to commit or rollback.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		Participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "txtree_participants",
			Help: "Participants notified by the most recent transaction event.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Begun, m.Transactions, m.ValidationFailures, m.Duration, m.Participants)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() txtree.Hooks {
	return txtree.Hooks{
		OnBegin: func(e *txtree.Event) {
			m.Begun.Inc()
			m.Participants.Set(float64(e.Participants))
		},
		OnCommit: func(e *txtree.Event) {
			m.finished(OutcomeCommitted, e)
		},
		OnRollback: func(e *txtree.Event) {
			m.finished(OutcomeRolledBack, e)
		},
		OnValidationFailed: func(e *txtree.Event) {
			m.ValidationFailures.Inc()
		},
	}
}

func (m *Metrics) finished(outcome string, e *txtree.Event) {
	m.Transactions.WithLabelValues(outcome).Inc()
	m.Duration.Observe(e.Duration.Seconds())
	m.Participants.Set(float64(e.Participants))
}
