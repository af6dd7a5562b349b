// internal/workers/bankbook/refresh-bankbook/handler.go
package refreshbankbook

import (
	"context"

	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/common/logger"
	"ariofinance/internal/common/metrics"
	"ariofinance/internal/ledger"
	"ariofinance/internal/models"
	"ariofinance/internal/store"
)

const (
	TaskType = "refresh-bankbook"
)

// SummaryWriter stores the refreshed account summaries for the dashboard.
// Implemented by *store.SummaryCache.
type SummaryWriter interface {
	PutSummaries(ctx context.Context, summaries map[string]models.AccountSummary) error
}

type Handler struct {
	config *Config
	store  *store.BankbookStore
	cache  SummaryWriter
	logger logger.Logger
	errors *errs.Handler
}

func NewHandler(config *Config, bankbook *store.BankbookStore, cache SummaryWriter, log logger.Logger) *Handler {
	taskLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  bankbook,
		cache:  cache,
		logger: taskLog,
		errors: errs.NewHandler(taskLog),
	}
}

// Execute loads all accounts and transactions, projects running balances
// and writes the per-account summary into the cache. Data-integrity
// findings are logged and counted but never abort the refresh.
func (h *Handler) Execute(ctx context.Context) (*Output, error) {
	accounts, err := h.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	transactions, loadWarnings, err := h.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range loadWarnings {
		h.errors.LogWarning(TaskType, w)
	}

	rows, projectWarnings := ledger.WithRunningBalances(transactions)
	for _, w := range projectWarnings {
		h.errors.LogWarning(TaskType, w)
		metrics.DataIntegrityWarnings.Inc()
	}
	metrics.LedgerRowsProjected.Add(float64(len(rows)))

	summaries := ledger.SummarizeAccounts(accounts, rows)
	if err := h.cache.PutSummaries(ctx, summaries); err != nil {
		return nil, err
	}

	output := &Output{
		Accounts:      len(accounts),
		RowsProjected: len(rows),
		Warnings:      len(loadWarnings) + len(projectWarnings),
	}

	h.logger.Info("bankbook refresh complete", map[string]interface{}{
		"accounts":      output.Accounts,
		"rowsProjected": output.RowsProjected,
		"warnings":      output.Warnings,
	})

	return output, nil
}
