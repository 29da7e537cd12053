// Package metrics holds the Prometheus collectors for wallet mutations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeWarning  = "warning"
	OutcomeRejected = "rejected"
)

// Activity outcomes.
const (
	OutcomeWritten = "written"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

var LedgerDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walletwise",
	Name:      "ledger_decisions_total",
	Help:      "Balance ledger decisions by operation and outcome.",
}, []string{"operation", "outcome"})

var BalanceWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walletwise",
	Name:      "balance_write_failures_total",
	Help:      "Balance increments that failed after the transaction record was written.",
}, []string{"operation"})

var ActivityRecords = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "walletwise",
	Name:      "activity_records_total",
	Help:      "Activity records by action and outcome.",
}, []string{"action", "outcome"})

var ActivityQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "walletwise",
	Name:      "activity_queue_depth",
	Help:      "Activity records waiting to be written.",
})

var ReconcileDrift = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "walletwise",
	Name:      "reconcile_drift_total",
	Help:      "Wallets whose stored balance differed from the replayed balance.",
})
