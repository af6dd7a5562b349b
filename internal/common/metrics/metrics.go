// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoringRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_scoring_runs_completed_total",
			Help: "Total number of loans scored successfully",
		},
		[]string{"rating"},
	)

	ScoringRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_scoring_runs_failed_total",
			Help: "Total number of loan scoring runs that failed",
		},
		[]string{"error_code"},
	)

	RatingChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_rating_changes_total",
			Help: "Total number of rating transitions that raised an alert",
		},
		[]string{"from", "to"},
	)

	LedgerRowsProjected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_rows_projected_total",
			Help: "Total number of transaction rows projected with running balances",
		},
	)

	DataIntegrityWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_data_integrity_warnings_total",
			Help: "Transactions matching neither debit nor credit account",
		},
	)

	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_task_duration_seconds",
			Help: "Duration of periodic task runs in seconds",
		},
		[]string{"task"},
	)
)
