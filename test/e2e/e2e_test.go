// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ariofinance/internal/audit"
	"ariofinance/internal/common/config"
	"ariofinance/internal/common/database"
	"ariofinance/internal/common/logger"
	"ariofinance/internal/models"
	"ariofinance/internal/store"

	rb "ariofinance/internal/workers/bankbook/refresh-bankbook"
	rl "ariofinance/internal/workers/risk/rescore-loans"
)

// These tests run the two worker handlers against real Postgres, Redis and
// Elasticsearch instances. They are skipped unless E2E_TESTS=true.

func requireE2E(t *testing.T) *config.Config {
	if os.Getenv("E2E_TESTS") != "true" {
		t.Skip("set E2E_TESTS=true to run end-to-end tests")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func setupPostgres(t *testing.T, cfg *config.Config) *database.PostgresClient {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })

	ctx := context.Background()
	require.NoError(t, pg.Ping(ctx))

	_, err = pg.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS loans (
			id        TEXT PRIMARY KEY,
			doc       JSONB NOT NULL,
			version   BIGINT NOT NULL DEFAULT 0,
			scored_at TIMESTAMPTZ
		)`)
	require.NoError(t, err)

	_, err = pg.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bank_accounts (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			account_no      TEXT NOT NULL,
			current_balance DOUBLE PRECISION NOT NULL DEFAULT 0
		)`)
	require.NoError(t, err)

	_, err = pg.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bank_transactions (
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		)`)
	require.NoError(t, err)

	return pg
}

func insertLoan(t *testing.T, pg *database.PostgresClient, loan models.Loan) {
	doc, err := json.Marshal(loan)
	require.NoError(t, err)

	_, err = pg.DB.ExecContext(context.Background(), `
		INSERT INTO loans (id, doc, version)
		VALUES ($1, $2, 0)
		ON CONFLICT (id) DO UPDATE SET doc = $2, version = 0, scored_at = NULL`,
		loan.ID, doc)
	require.NoError(t, err)
}

func TestRescoreLoansEndToEnd(t *testing.T) {
	cfg := requireE2E(t)
	ctx := context.Background()

	pg := setupPostgres(t, cfg)

	rd, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { rd.Close() })
	require.NoError(t, rd.Ping(ctx))

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping())

	loan := models.Loan{
		ID:               "e2e-loan-1",
		RepaymentHistory: []models.Repayment{{Status: models.RepaymentPaid}, {Status: models.RepaymentPaid}},
		Documents:        []models.LoanDocument{{Status: models.StatusApproved}},
		Collateral:       []models.Collateral{{Status: models.StatusApproved}},
		Guarantors: []models.Guarantor{
			{Documents: []models.LoanDocument{{Status: models.StatusApproved}}},
		},
		DaysLate:   0,
		RiskRating: models.RatingHigh,
	}
	insertLoan(t, pg, loan)

	loanStore := store.NewLoanStore(pg.DB)
	cache := store.NewSummaryCache(rd.Client, 5*time.Minute)
	auditor := audit.NewIndexer(es.Client, cfg.Database.Elasticsearch.AuditIndex)

	handler := rl.NewHandler(
		&rl.Config{Timeout: 30 * time.Second, BatchSize: 10, StaleAfter: time.Hour},
		loanStore, auditor, cache, logger.NewTestLogger(t),
	)

	output, err := handler.Execute(ctx, &rl.Input{LoanIDs: []string{"e2e-loan-1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Scored)
	assert.Equal(t, 1, output.RatingChanges)

	// Persisted state reflects the run: LOW rating, bumped version,
	// four fresh observations and one change alert.
	updated, err := loanStore.GetLoan(ctx, "e2e-loan-1")
	require.NoError(t, err)
	assert.Equal(t, models.RatingLow, updated.RiskRating)
	assert.Equal(t, int64(1), updated.Version)
	assert.Len(t, updated.RiskFactors, 4)
	require.Len(t, updated.Alerts, 1)
	assert.Equal(t, "Risk rating changed from HIGH to LOW", updated.Alerts[0].Message)
}

func TestRefreshBankbookEndToEnd(t *testing.T) {
	cfg := requireE2E(t)
	ctx := context.Background()

	pg := setupPostgres(t, cfg)

	rd, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { rd.Close() })
	require.NoError(t, rd.Ping(ctx))

	_, err = pg.DB.ExecContext(ctx, `
		INSERT INTO bank_accounts (id, name, account_no, current_balance)
		VALUES ('e2e-acct-1', 'Operating', '001', 0)
		ON CONFLICT (id) DO UPDATE SET current_balance = 0`)
	require.NoError(t, err)

	txDocs := map[string]string{
		"e2e-tx-1": `{"id":"e2e-tx-1","date":"2026-01-01T00:00:00Z","amount":100,"debitAccount":"external","creditAccount":"e2e-acct-1","bankAccountId":"e2e-acct-1"}`,
		"e2e-tx-2": `{"id":"e2e-tx-2","date":"2026-01-02T00:00:00Z","amount":30,"debitAccount":"e2e-acct-1","creditAccount":"external","bankAccountId":"e2e-acct-1"}`,
	}
	for id, doc := range txDocs {
		_, err = pg.DB.ExecContext(ctx, `
			INSERT INTO bank_transactions (id, doc) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET doc = $2`, id, doc)
		require.NoError(t, err)
	}

	cache := store.NewSummaryCache(rd.Client, 5*time.Minute)
	handler := rb.NewHandler(
		rb.LoadConfig(),
		store.NewBankbookStore(pg.DB), cache, logger.NewTestLogger(t),
	)

	output, err := handler.Execute(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, output.Accounts, 1)
	assert.GreaterOrEqual(t, output.RowsProjected, 2)

	summaries, err := cache.GetSummaries(ctx)
	require.NoError(t, err)
	require.Contains(t, summaries, "e2e-acct-1")
	assert.Equal(t, 70.0, summaries["e2e-acct-1"].Balance)
}
