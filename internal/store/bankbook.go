// internal/store/bankbook.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/common/validation"
	"ariofinance/internal/models"
)

// BankbookStore reads bank accounts and their transaction documents.
type BankbookStore struct {
	db *sql.DB
}

func NewBankbookStore(db *sql.DB) *BankbookStore {
	return &BankbookStore{db: db}
}

// ListAccounts returns all bank accounts.
func (s *BankbookStore) ListAccounts(ctx context.Context) ([]models.BankAccount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, account_no, current_balance FROM bank_accounts ORDER BY name`)
	if err != nil {
		return nil, errs.NewQueryExecutionFailedError("bank_accounts", err)
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		var a models.BankAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.AccountNo, &a.CurrentBalance); err != nil {
			return nil, errs.NewQueryExecutionFailedError("bank_accounts", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewQueryExecutionFailedError("bank_accounts", err)
	}

	return accounts, nil
}

// ListTransactions returns all bank transaction documents, decoded after
// boundary validation. Rows that fail validation are returned in the
// second slice as warnings and skipped; a malformed row never blocks the
// bankbook refresh.
func (s *BankbookStore) ListTransactions(ctx context.Context) ([]models.Transaction, []*errs.StandardError, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM bank_transactions`)
	if err != nil {
		return nil, nil, errs.NewQueryExecutionFailedError("bank_transactions", err)
	}
	defer rows.Close()

	var (
		txs      []models.Transaction
		warnings []*errs.StandardError
	)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, nil, errs.NewQueryExecutionFailedError("bank_transactions", err)
		}

		if err := validation.ValidateTransactionDocument(raw); err != nil {
			warnings = append(warnings, errs.NewMalformedDocumentWarning("transaction", err.Error()))
			continue
		}

		var tx models.Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			warnings = append(warnings, errs.NewMalformedDocumentWarning("transaction", err.Error()))
			continue
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errs.NewQueryExecutionFailedError("bank_transactions", err)
	}

	return txs, warnings, nil
}
