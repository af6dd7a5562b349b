// internal/ledger/projector.go

// Package ledger reconstructs per-account running balances from an
// unordered batch of bank transactions and builds the per-account
// balance summary used by dashboard cards.
package ledger

import (
	"sort"

	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/models"
)

// WithRunningBalances sorts the whole batch chronologically (stable, so
// same-date rows keep their input order) and folds one running-total
// accumulator per bank account over it. Each emitted row carries its
// debit/credit classification relative to its own bank account and the
// account balance after the row.
//
// Input rows are never mutated; the result is a fresh slice in sorted
// order. Callers wanting the original order must re-sort by their own key.
//
// A row whose bank account matches neither its debit nor its credit side
// is still emitted, classified as Credit, and reported as a
// DATA_INTEGRITY_WARNING for the caller to log. Unbalanced data never
// aborts a bankbook view.
func WithRunningBalances(rows []models.Transaction) ([]models.LedgerRow, []*errs.StandardError) {
	sorted := make([]models.Transaction, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	balances := make(map[string]float64)
	warnings := []*errs.StandardError{}

	out := make([]models.LedgerRow, 0, len(sorted))
	for _, tx := range sorted {
		acctID := tx.BankAccount.ID()
		isDebit := tx.DebitAccount.ID() == acctID
		isCredit := tx.CreditAccount.ID() == acctID

		if !isDebit && !isCredit {
			warnings = append(warnings, errs.NewDataIntegrityWarning(tx.ID, acctID))
		}

		var debit, credit float64
		side := models.SideCredit
		if isDebit {
			side = models.SideDebit
			debit = tx.Amount
		} else {
			credit = tx.Amount
		}

		balances[acctID] += credit - debit

		out = append(out, models.LedgerRow{
			Transaction: tx,
			Type:        side,
			Debit:       debit,
			Credit:      credit,
			Balance:     balances[acctID],
		})
	}

	return out, warnings
}

// SummarizeAccounts builds the dashboard summary for the given accounts.
// Each account is seeded with its persisted balance; walking the
// chronologically ordered rows then overwrites it with the balance after
// each matching row, so the last write is the account's latest balance.
// Accounts without transactions keep their seeded balance; rows pointing
// at unknown accounts are skipped.
func SummarizeAccounts(accounts []models.BankAccount, projected []models.LedgerRow) map[string]models.AccountSummary {
	summaries := make(map[string]models.AccountSummary, len(accounts))
	for _, a := range accounts {
		summaries[a.ID] = models.AccountSummary{
			Name:      a.Name,
			Balance:   a.CurrentBalance,
			AccountNo: a.AccountNo,
		}
	}

	for _, row := range projected {
		acctID := row.BankAccount.ID()
		summary, ok := summaries[acctID]
		if !ok {
			continue
		}
		summary.Balance = row.Balance
		summaries[acctID] = summary
	}

	return summaries
}
