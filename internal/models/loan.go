// internal/models/loan.go
package models

import "time"

// RepaymentStatus is the settlement state of a single scheduled repayment.
type RepaymentStatus string

const (
	RepaymentPaid   RepaymentStatus = "PAID"
	RepaymentLate   RepaymentStatus = "LATE"
	RepaymentMissed RepaymentStatus = "MISSED"
)

// ApprovalStatus is the review state of a document or collateral item.
type ApprovalStatus string

const (
	StatusApproved ApprovalStatus = "APPROVED"
	StatusPending  ApprovalStatus = "PENDING"
	StatusRejected ApprovalStatus = "REJECTED"
)

// Rating is the categorical risk level derived from a numeric score.
type Rating string

const (
	RatingLow    Rating = "LOW"
	RatingMedium Rating = "MEDIUM"
	RatingHigh   Rating = "HIGH"
)

// RiskFactorType identifies which sub-score a RiskFactor observation records.
type RiskFactorType string

const (
	FactorPaymentHistory  RiskFactorType = "PAYMENT_HISTORY"
	FactorDocumentStatus  RiskFactorType = "DOCUMENT_STATUS"
	FactorCollateralValue RiskFactorType = "COLLATERAL_VALUE"
	FactorGuarantorStatus RiskFactorType = "GUARANTOR_STATUS"
)

// AlertTypeDefaultRisk is raised when a loan's rating moves between levels.
const AlertTypeDefaultRisk = "DEFAULT_RISK"

type Repayment struct {
	Status  RepaymentStatus `json:"status"`
	DueDate time.Time       `json:"dueDate"`
	Amount  float64         `json:"amount"`
	PaidAt  *time.Time      `json:"paidAt,omitempty"`
}

type LoanDocument struct {
	Name   string         `json:"name,omitempty"`
	Status ApprovalStatus `json:"status"`
}

type Collateral struct {
	Description string         `json:"description,omitempty"`
	Value       float64        `json:"value,omitempty"`
	Status      ApprovalStatus `json:"status"`
}

// Guarantor counts as approved only when every one of its documents is approved.
type Guarantor struct {
	Name      string         `json:"name,omitempty"`
	Documents []LoanDocument `json:"documents"`
}

// Approved reports whether all of the guarantor's documents are approved.
// A guarantor with no documents is not approved.
func (g Guarantor) Approved() bool {
	if len(g.Documents) == 0 {
		return false
	}
	for _, d := range g.Documents {
		if d.Status != StatusApproved {
			return false
		}
	}
	return true
}

// RiskFactor is one dated observation recorded during a scoring run.
// Observations are append-only; they are never mutated after creation.
type RiskFactor struct {
	ID     string         `json:"id"`
	Type   RiskFactorType `json:"type"`
	Value  float64        `json:"value"`
	Weight float64        `json:"weight"`
	Date   time.Time      `json:"date"`
}

type Alert struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Message  string    `json:"message"`
	Date     time.Time `json:"date"`
	IsActive bool      `json:"isActive"`
}

// Loan is the scoring-time view of a loan together with the mutable
// rating state the scorer maintains. The sub-collections are read-only
// inputs; RiskFactors, RiskRating and Alerts are owned by the scorer
// and persisted back by the caller.
type Loan struct {
	ID               string         `json:"id"`
	BorrowerID       string         `json:"borrowerId,omitempty"`
	RepaymentHistory []Repayment    `json:"repaymentHistory"`
	Documents        []LoanDocument `json:"documents"`
	Collateral       []Collateral   `json:"collateral"`
	Guarantors       []Guarantor    `json:"guarantors"`
	DaysLate         int            `json:"daysLate"`
	RiskFactors      []RiskFactor   `json:"riskFactors"`
	RiskRating       Rating         `json:"riskRating"`
	Alerts           []Alert        `json:"alerts"`

	// Version guards the read-modify-write cycle on the persisted record.
	Version int64 `json:"version"`
}
