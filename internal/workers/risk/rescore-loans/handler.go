// internal/workers/risk/rescore-loans/handler.go
package rescoreloans

import (
	"context"
	"time"

	"ariofinance/internal/audit"
	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/common/logger"
	"ariofinance/internal/common/metrics"
	"ariofinance/internal/risk"
	"ariofinance/internal/store"
)

const (
	TaskType = "rescore-loans"
)

// AuditSink receives the scoring trail for each processed loan.
// Implemented by *audit.Indexer.
type AuditSink interface {
	IndexScoringRun(ctx context.Context, run *audit.ScoringRun) error
}

// RiskCache invalidates per-loan risk entries after a rescoring run.
// Implemented by *store.SummaryCache.
type RiskCache interface {
	InvalidateLoanRisk(ctx context.Context, loanID string) error
}

type Handler struct {
	config  *Config
	loans   *store.LoanStore
	auditor AuditSink
	cache   RiskCache
	logger  logger.Logger
	errors  *errs.Handler
	now     func() time.Time
}

func NewHandler(config *Config, loans *store.LoanStore, auditor AuditSink, cache RiskCache, log logger.Logger) *Handler {
	taskLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		loans:   loans,
		auditor: auditor,
		cache:   cache,
		logger:  taskLog,
		errors:  errs.NewHandler(taskLog),
		now:     time.Now,
	}
}

// Execute rescoring for the selected (or stale) loans. Per-loan failures
// are logged and skipped so one bad record never stalls the batch; only
// batch-level failures (the id query itself) abort the run.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ids := input.LoanIDs
	if len(ids) == 0 {
		var err error
		ids, err = h.loans.ListDueForRescoring(ctx, h.config.StaleAfter, h.config.BatchSize)
		if err != nil {
			return nil, err
		}
	}

	output := &Output{}
	for _, id := range ids {
		changed, err := h.rescoreLoan(ctx, id)
		if err != nil {
			h.errors.HandleTaskError(TaskType, err)
			if stdErr, ok := err.(*errs.StandardError); ok {
				metrics.ScoringRunsFailed.WithLabelValues(string(stdErr.Code)).Inc()
			} else {
				metrics.ScoringRunsFailed.WithLabelValues("INTERNAL_ERROR").Inc()
			}
			output.Skipped++
			output.SkippedLoans = append(output.SkippedLoans, id)
			continue
		}
		output.Scored++
		if changed {
			output.RatingChanges++
		}
	}

	h.logger.Info("rescoring run complete", map[string]interface{}{
		"scored":        output.Scored,
		"skipped":       output.Skipped,
		"ratingChanges": output.RatingChanges,
	})

	return output, nil
}

// rescoreLoan runs the full read-score-persist-audit cycle for one loan
// and reports whether its rating changed.
func (h *Handler) rescoreLoan(ctx context.Context, id string) (bool, error) {
	loan, err := h.loans.GetLoan(ctx, id)
	if err != nil {
		return false, err
	}

	now := h.now().UTC()
	previous := loan.RiskRating
	alertsBefore := len(loan.Alerts)

	rating, err := risk.UpdateRiskRating(loan, now)
	if err != nil {
		return false, err
	}

	if err := h.loans.SaveScoringResult(ctx, loan, now); err != nil {
		return false, err
	}

	changed := previous != "" && previous != rating
	run := &audit.ScoringRun{
		LoanID:       loan.ID,
		Rating:       rating,
		PrevRating:   previous,
		Observations: loan.RiskFactors[len(loan.RiskFactors)-4:],
		ScoredAt:     now,
	}
	if changed && len(loan.Alerts) > alertsBefore {
		run.Alert = &loan.Alerts[len(loan.Alerts)-1]
	}

	if err := h.auditor.IndexScoringRun(ctx, run); err != nil {
		// The loan is already persisted; a missing audit document is
		// recoverable and must not undo the scoring.
		h.errors.HandleTaskError(TaskType, err)
	}

	if err := h.cache.InvalidateLoanRisk(ctx, loan.ID); err != nil {
		h.logger.Warn("risk cache invalidation failed", map[string]interface{}{
			"loanId": loan.ID,
			"error":  err.Error(),
		})
	}

	metrics.ScoringRunsCompleted.WithLabelValues(string(rating)).Inc()
	if changed {
		metrics.RatingChanges.WithLabelValues(string(previous), string(rating)).Inc()
	}

	h.logger.Debug("loan rescored", map[string]interface{}{
		"loanId": loan.ID,
		"rating": string(rating),
	})

	return changed, nil
}
