// Package observability exposes Prometheus metrics for sync activity.
// The ledger itself never blocks on the remote; these counters are how
// an operator notices a dead endpoint.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PushesTotal counts replication push attempts by action and outcome.
	PushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momai_sync_pushes_total",
		Help: "Replication push attempts by action and outcome.",
	}, []string{"action", "outcome"})

	// PullsTotal counts snapshot pulls by outcome.
	PullsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momai_sync_pulls_total",
		Help: "Remote snapshot pulls by outcome.",
	}, []string{"outcome"})

	// MergedRecords reports collection sizes after the last merge.
	MergedRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "momai_merged_records",
		Help: "Records held locally after the last reconciliation merge.",
	}, []string{"entity"})

	// MutationsTotal counts accepted local mutations by operation.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momai_mutations_total",
		Help: "Accepted local mutations by operation.",
	}, []string{"operation"})
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
