// internal/risk/scorer.go

// Package risk computes a weighted composite risk score for a loan and
// maintains the loan's categorical rating, observation history and
// change alerts.
//
// A loan is scored against five weighted factors: repayment punctuality,
// document approval, collateral approval, guarantor approval and current
// lateness. Scores range 0-100; the lateness term is uncapped below zero,
// so a loan more than 30 days overdue drags the composite down further.
package risk

import (
	"fmt"
	"math"
	"time"

	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/models"

	"github.com/google/uuid"
)

// Factor weights. They sum to 1.0, so a loan with every ratio at 1.0 and
// zero days late scores exactly 100.
const (
	WeightPaymentHistory  = 0.40
	WeightDocumentStatus  = 0.20
	WeightCollateralValue = 0.20
	WeightGuarantorStatus = 0.10
	WeightTimeliness      = 0.10
)

// latenessWindowDays is the overdue span over which the timeliness factor
// decays from 1 to 0.
const latenessWindowDays = 30

// Rating thresholds.
const (
	lowRatingFloor    = 80
	mediumRatingFloor = 60
)

// CalculateRiskScore computes the composite 0-100 score for a loan.
//
// Every sub-population must be non-empty: an empty repayment history,
// document list, collateral list or guarantor list makes its ratio
// undefined, and the loan is rejected with LOAN_SNAPSHOT_INVALID rather
// than letting a division by zero poison the composite.
func CalculateRiskScore(loan *models.Loan) (int, error) {
	if err := validateSnapshot(loan); err != nil {
		return 0, err
	}

	paymentRatio := onTimeRatio(loan.RepaymentHistory)
	documentRatio := approvedDocumentRatio(loan.Documents)
	collateralRatio := approvedCollateralRatio(loan.Collateral)
	guarantorRatio := approvedGuarantorRatio(loan.Guarantors)
	timeliness := 1 - float64(loan.DaysLate)/latenessWindowDays

	score := paymentRatio*WeightPaymentHistory*100 +
		documentRatio*WeightDocumentStatus*100 +
		collateralRatio*WeightCollateralValue*100 +
		guarantorRatio*WeightGuarantorStatus*100 +
		timeliness*WeightTimeliness*100

	return int(math.Round(score)), nil
}

// RatingForScore maps a numeric score to its categorical rating. Total
// over all ints: negative scores map to HIGH, scores above 100 to LOW.
func RatingForScore(score int) models.Rating {
	switch {
	case score >= lowRatingFloor:
		return models.RatingLow
	case score >= mediumRatingFloor:
		return models.RatingMedium
	default:
		return models.RatingHigh
	}
}

// UpdateRiskRating rescores the loan, appends one dated observation per
// factor, overwrites the stored rating and raises a DEFAULT_RISK alert
// when the rating moved between levels. The caller persists the mutated
// loan; this function only touches the in-memory record.
//
// Exactly four observations are appended per call. The timeliness factor
// contributes to the score but is not recorded as an observation; the
// observation trail mirrors the four approval-state factors only.
func UpdateRiskRating(loan *models.Loan, now time.Time) (models.Rating, error) {
	score, err := CalculateRiskScore(loan)
	if err != nil {
		return "", err
	}
	rating := RatingForScore(score)

	loan.RiskFactors = append(loan.RiskFactors,
		newObservation(models.FactorPaymentHistory, score, WeightPaymentHistory, now),
		newObservation(models.FactorDocumentStatus, score, WeightDocumentStatus, now),
		newObservation(models.FactorCollateralValue, score, WeightCollateralValue, now),
		newObservation(models.FactorGuarantorStatus, score, WeightGuarantorStatus, now),
	)

	// Read the previous rating before overwriting it, so the change
	// comparison sees the pre-update value.
	previous := loan.RiskRating
	loan.RiskRating = rating

	if previous != "" && previous != rating {
		loan.Alerts = append(loan.Alerts, models.Alert{
			ID:       uuid.NewString(),
			Type:     models.AlertTypeDefaultRisk,
			Message:  fmt.Sprintf("Risk rating changed from %s to %s", previous, rating),
			Date:     now,
			IsActive: true,
		})
	}

	return rating, nil
}

func newObservation(t models.RiskFactorType, score int, weight float64, now time.Time) models.RiskFactor {
	return models.RiskFactor{
		ID:     uuid.NewString(),
		Type:   t,
		Value:  float64(score) * weight,
		Weight: weight,
		Date:   now,
	}
}

func validateSnapshot(loan *models.Loan) error {
	switch {
	case len(loan.RepaymentHistory) == 0:
		return errs.NewLoanSnapshotInvalidError(loan.ID, "repaymentHistory is empty")
	case len(loan.Documents) == 0:
		return errs.NewLoanSnapshotInvalidError(loan.ID, "documents is empty")
	case len(loan.Collateral) == 0:
		return errs.NewLoanSnapshotInvalidError(loan.ID, "collateral is empty")
	case len(loan.Guarantors) == 0:
		return errs.NewLoanSnapshotInvalidError(loan.ID, "guarantors is empty")
	}
	return nil
}

func onTimeRatio(history []models.Repayment) float64 {
	paid := 0
	for _, r := range history {
		if r.Status == models.RepaymentPaid {
			paid++
		}
	}
	return float64(paid) / float64(len(history))
}

func approvedDocumentRatio(docs []models.LoanDocument) float64 {
	approved := 0
	for _, d := range docs {
		if d.Status == models.StatusApproved {
			approved++
		}
	}
	return float64(approved) / float64(len(docs))
}

func approvedCollateralRatio(items []models.Collateral) float64 {
	approved := 0
	for _, c := range items {
		if c.Status == models.StatusApproved {
			approved++
		}
	}
	return float64(approved) / float64(len(items))
}

func approvedGuarantorRatio(guarantors []models.Guarantor) float64 {
	approved := 0
	for _, g := range guarantors {
		if g.Approved() {
			approved++
		}
	}
	return float64(approved) / float64(len(guarantors))
}
