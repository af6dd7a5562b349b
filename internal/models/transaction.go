// internal/models/transaction.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AccountRef is an account reference as stored by the upstream document
// database: either a bare identifier string or an embedded object that
// carries the identifier in an "_id" (or "id") field. All comparisons go
// through ID() so the two shapes are interchangeable.
type AccountRef struct {
	id string
}

// NewAccountRef builds a reference from a bare identifier.
func NewAccountRef(id string) AccountRef {
	return AccountRef{id: id}
}

// ID returns the bare account identifier, or "" for a zero reference.
func (r AccountRef) ID() string {
	return r.id
}

// IsZero reports whether the reference carries no identifier.
func (r AccountRef) IsZero() bool {
	return r.id == ""
}

func (r AccountRef) String() string {
	return r.id
}

func (r AccountRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts both reference shapes.
func (r *AccountRef) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		r.id = bare
		return nil
	}

	var embedded struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(data, &embedded); err != nil {
		return fmt.Errorf("account reference is neither a string nor an object: %w", err)
	}
	if embedded.MongoID != "" {
		r.id = embedded.MongoID
		return nil
	}
	r.id = embedded.ID
	return nil
}

// EntrySide classifies a ledger row relative to its own bank account.
type EntrySide string

const (
	SideDebit  EntrySide = "Debit"
	SideCredit EntrySide = "Credit"
)

// Transaction is one bank transaction as fetched from storage. Amount is
// non-negative; direction comes from the debit/credit account pairing.
type Transaction struct {
	ID            string     `json:"id"`
	Date          time.Time  `json:"date"`
	Amount        float64    `json:"amount"`
	DebitAccount  AccountRef `json:"debitAccount"`
	CreditAccount AccountRef `json:"creditAccount"`
	BankAccount   AccountRef `json:"bankAccountId"`
	Narration     string     `json:"narration,omitempty"`
}

// LedgerRow is a transaction augmented with its bankbook classification
// and the running balance of its bank account after this row.
type LedgerRow struct {
	Transaction
	Type    EntrySide `json:"type"`
	Debit   float64   `json:"debit"`
	Credit  float64   `json:"credit"`
	Balance float64   `json:"balance"`
}

type BankAccount struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	AccountNo      string  `json:"accountNo"`
	CurrentBalance float64 `json:"currentBalance"`
}

// AccountSummary is the dashboard-card view of one account.
type AccountSummary struct {
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
	AccountNo string  `json:"accountNo"`
}
