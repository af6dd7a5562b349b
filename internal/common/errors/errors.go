// Package errors provides standardized error handling for the finance workers.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Risk scoring / loan data quality
	ErrCodeLoanSnapshotInvalid ErrorCode = "LOAN_SNAPSHOT_INVALID"
	ErrCodeLoanNotFound        ErrorCode = "LOAN_NOT_FOUND"
	ErrCodeLoanVersionConflict ErrorCode = "LOAN_VERSION_CONFLICT"

	// Ledger projection
	ErrCodeDataIntegrityWarning ErrorCode = "DATA_INTEGRITY_WARNING"

	// Storage
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseUpdateFailed     ErrorCode = "DATABASE_UPDATE_FAILED"

	// Audit trail / cache
	ErrCodeAuditIndexFailed ErrorCode = "AUDIT_INDEX_FAILED"
	ErrCodeCacheWriteFailed ErrorCode = "CACHE_WRITE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewLoanSnapshotInvalidError flags a loan whose sub-collections cannot be
// scored (empty repayment history, documents, collateral or guarantors).
// Not retryable: the record itself is the defect.
func NewLoanSnapshotInvalidError(loanID, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLoanSnapshotInvalid,
		Message:   "Loan snapshot cannot be scored",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"loanId": loanID},
		Timestamp: time.Now().UTC(),
	}
}

// NewLoanNotFoundError creates a non-retryable missing-loan error.
func NewLoanNotFoundError(loanID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLoanNotFound,
		Message:   "Loan not found",
		Details:   fmt.Sprintf("loanId: %s", loanID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLoanVersionConflictError creates a retryable optimistic-lock error.
// The loan changed between read and write; the next run rescores it.
func NewLoanVersionConflictError(loanID string, version int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeLoanVersionConflict,
		Message:   "Loan was modified concurrently",
		Details:   fmt.Sprintf("loanId: %s, version: %d", loanID, version),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataIntegrityWarning records a transaction whose bank account matches
// neither its debit nor its credit side. The row is still projected
// (classified as Credit); this error is logged, never thrown.
func NewDataIntegrityWarning(transactionID, accountID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataIntegrityWarning,
		Message:   "Transaction matches neither debit nor credit account",
		Details:   fmt.Sprintf("transactionId: %s, bankAccountId: %s", transactionID, accountID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedDocumentWarning records a stored document that failed schema
// validation and was skipped. Logged, never thrown.
func NewMalformedDocumentWarning(entity, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataIntegrityWarning,
		Message:   fmt.Sprintf("Malformed %s document skipped", entity),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(entity string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("entity: %s, error: %s", entity, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseUpdateFailedError creates a retryable write error.
func NewDatabaseUpdateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseUpdateFailed,
		Message:   "Database update operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditIndexFailedError creates a retryable audit-trail indexing error.
func NewAuditIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditIndexFailed,
		Message:   "Audit trail indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheWriteFailedError creates a retryable cache write error.
func NewCacheWriteFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheWriteFailed,
		Message:   "Cache write failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseUpdateFailed,
		ErrCodeAuditIndexFailed,
		ErrCodeCacheWriteFailed:
		return 3 // Retryable technical errors

	case ErrCodeLoanVersionConflict:
		return 1 // The next scheduled run picks the loan up again

	default:
		return 0 // Data-quality errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "LOAN"):
		return "LOAN"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "AUDIT"):
		return "AUDIT"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "INTEGRITY"):
		return "DATA_QUALITY"
	default:
		return "OTHER"
	}
}
