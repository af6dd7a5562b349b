// internal/store/loans.go

// Package store provides the Postgres- and Redis-backed persistence
// collaborators for the risk and bankbook workers. Loans and bank
// transactions are stored as JSON documents (the upstream application is
// document-oriented); every document is schema-validated before decoding.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/common/validation"
	"ariofinance/internal/models"
)

// LoanStore reads and writes loan documents.
//
// Writes are guarded by an optimistic version check: SaveScoringResult
// only succeeds when the stored version still matches the one the loan
// was read with, so concurrent scoring of the same loan cannot lose the
// other writer's update.
type LoanStore struct {
	db *sql.DB
}

func NewLoanStore(db *sql.DB) *LoanStore {
	return &LoanStore{db: db}
}

// GetLoan loads a single loan document and decodes it after boundary
// validation.
func (s *LoanStore) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	var (
		raw     []byte
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT doc, version FROM loans WHERE id = $1`, id,
	).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewLoanNotFoundError(id)
		}
		return nil, errs.NewQueryExecutionFailedError("loans", err)
	}

	if err := validation.ValidateLoanDocument(raw); err != nil {
		return nil, errs.NewLoanSnapshotInvalidError(id, err.Error())
	}

	var loan models.Loan
	if err := json.Unmarshal(raw, &loan); err != nil {
		return nil, errs.NewLoanSnapshotInvalidError(id, err.Error())
	}
	loan.Version = version

	return &loan, nil
}

// ListDueForRescoring returns the ids of loans whose last scoring run is
// older than staleAfter, oldest first, capped at limit.
func (s *LoanStore) ListDueForRescoring(ctx context.Context, staleAfter time.Duration, limit int) ([]string, error) {
	cutoff := time.Now().UTC().Add(-staleAfter)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM loans
		 WHERE scored_at IS NULL OR scored_at < $1
		 ORDER BY scored_at NULLS FIRST
		 LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, errs.NewQueryExecutionFailedError("loans", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.NewQueryExecutionFailedError("loans", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewQueryExecutionFailedError("loans", err)
	}

	return ids, nil
}

// SaveScoringResult writes the mutated loan document back, bumping its
// version and stamping the scoring time. A version mismatch (the loan
// changed since it was read) surfaces as LOAN_VERSION_CONFLICT.
func (s *LoanStore) SaveScoringResult(ctx context.Context, loan *models.Loan, scoredAt time.Time) error {
	doc, err := json.Marshal(loan)
	if err != nil {
		return errs.NewDatabaseUpdateFailedError(err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE loans
		 SET doc = $1, version = version + 1, scored_at = $2
		 WHERE id = $3 AND version = $4`,
		doc, scoredAt, loan.ID, loan.Version)
	if err != nil {
		return errs.NewDatabaseUpdateFailedError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errs.NewDatabaseUpdateFailedError(err)
	}
	if affected == 0 {
		return errs.NewLoanVersionConflictError(loan.ID, loan.Version)
	}

	loan.Version++
	return nil
}
