// internal/risk/scorer_test.go
package risk

import (
	"testing"
	"time"

	errs "ariofinance/internal/common/errors"
	"ariofinance/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func repayments(paid, late, missed int) []models.Repayment {
	history := make([]models.Repayment, 0, paid+late+missed)
	for i := 0; i < paid; i++ {
		history = append(history, models.Repayment{Status: models.RepaymentPaid})
	}
	for i := 0; i < late; i++ {
		history = append(history, models.Repayment{Status: models.RepaymentLate})
	}
	for i := 0; i < missed; i++ {
		history = append(history, models.Repayment{Status: models.RepaymentMissed})
	}
	return history
}

func documents(approved, pending int) []models.LoanDocument {
	docs := make([]models.LoanDocument, 0, approved+pending)
	for i := 0; i < approved; i++ {
		docs = append(docs, models.LoanDocument{Status: models.StatusApproved})
	}
	for i := 0; i < pending; i++ {
		docs = append(docs, models.LoanDocument{Status: models.StatusPending})
	}
	return docs
}

func collateral(approved, pending int) []models.Collateral {
	items := make([]models.Collateral, 0, approved+pending)
	for i := 0; i < approved; i++ {
		items = append(items, models.Collateral{Status: models.StatusApproved})
	}
	for i := 0; i < pending; i++ {
		items = append(items, models.Collateral{Status: models.StatusPending})
	}
	return items
}

func approvedGuarantor() models.Guarantor {
	return models.Guarantor{Documents: documents(2, 0)}
}

func pendingGuarantor() models.Guarantor {
	return models.Guarantor{Documents: documents(1, 1)}
}

// perfectLoan scores exactly 100: every ratio 1.0, zero days late.
func perfectLoan() *models.Loan {
	return &models.Loan{
		ID:               "loan-perfect",
		RepaymentHistory: repayments(10, 0, 0),
		Documents:        documents(5, 0),
		Collateral:       collateral(2, 0),
		Guarantors:       []models.Guarantor{approvedGuarantor()},
		DaysLate:         0,
	}
}

// ==========================
// Score Computation Tests
// ==========================

func TestCalculateRiskScore_PerfectLoanScoresExactly100(t *testing.T) {
	score, err := CalculateRiskScore(perfectLoan())

	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestCalculateRiskScore_WeightsSumToOne(t *testing.T) {
	sum := WeightPaymentHistory + WeightDocumentStatus + WeightCollateralValue +
		WeightGuarantorStatus + WeightTimeliness

	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestCalculateRiskScore_DistressedLoan(t *testing.T) {
	// 5/10 on time (20), 3/5 docs (12), 1/2 collateral (10),
	// 0/1 guarantors (0), 30 days late (0) = 42.
	loan := &models.Loan{
		ID:               "loan-distressed",
		RepaymentHistory: repayments(5, 3, 2),
		Documents:        documents(3, 2),
		Collateral:       collateral(1, 1),
		Guarantors:       []models.Guarantor{pendingGuarantor()},
		DaysLate:         30,
	}

	score, err := CalculateRiskScore(loan)

	require.NoError(t, err)
	assert.Equal(t, 42, score)
	assert.Equal(t, models.RatingHigh, RatingForScore(score))
}

func TestCalculateRiskScore_LatenessBeyondWindowGoesNegative(t *testing.T) {
	// Perfect approval state but 60 days overdue: the timeliness term is
	// -1, dragging a would-be 100 down to 80.
	loan := perfectLoan()
	loan.DaysLate = 60

	score, err := CalculateRiskScore(loan)

	require.NoError(t, err)
	assert.Equal(t, 80, score)
	assert.Equal(t, models.RatingLow, RatingForScore(score))
}

func TestCalculateRiskScore_MonotonicInOnTimeRatio(t *testing.T) {
	previous := -1
	for paid := 0; paid <= 10; paid++ {
		loan := perfectLoan()
		loan.RepaymentHistory = repayments(paid, 10-paid, 0)

		score, err := CalculateRiskScore(loan)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, score, previous,
			"score decreased when on-time ratio increased (paid=%d)", paid)
		previous = score
	}
}

func TestCalculateRiskScore_EmptySubCollections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(loan *models.Loan)
	}{
		{
			name:   "empty repayment history",
			mutate: func(l *models.Loan) { l.RepaymentHistory = nil },
		},
		{
			name:   "empty documents",
			mutate: func(l *models.Loan) { l.Documents = nil },
		},
		{
			name:   "empty collateral",
			mutate: func(l *models.Loan) { l.Collateral = nil },
		},
		{
			name:   "empty guarantors",
			mutate: func(l *models.Loan) { l.Guarantors = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := perfectLoan()
			tt.mutate(loan)

			_, err := CalculateRiskScore(loan)

			require.Error(t, err)
			stdErr, ok := err.(*errs.StandardError)
			require.True(t, ok)
			assert.Equal(t, errs.ErrCodeLoanSnapshotInvalid, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

// ==========================
// Rating Threshold Tests
// ==========================

func TestRatingForScore_BoundaryExactness(t *testing.T) {
	tests := []struct {
		score    int
		expected models.Rating
	}{
		{100, models.RatingLow},
		{81, models.RatingLow},
		{80, models.RatingLow},
		{79, models.RatingMedium},
		{61, models.RatingMedium},
		{60, models.RatingMedium},
		{59, models.RatingHigh},
		{42, models.RatingHigh},
		{0, models.RatingHigh},
		{-10, models.RatingHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RatingForScore(tt.score), "score %d", tt.score)
	}
}

// ==========================
// UpdateRiskRating Tests
// ==========================

func TestUpdateRiskRating_AppendsExactlyFourObservations(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		loan *models.Loan
	}{
		{name: "perfect loan", loan: perfectLoan()},
		{
			name: "distressed loan",
			loan: &models.Loan{
				ID:               "loan-2",
				RepaymentHistory: repayments(1, 9, 0),
				Documents:        documents(0, 3),
				Collateral:       collateral(0, 1),
				Guarantors:       []models.Guarantor{pendingGuarantor()},
				DaysLate:         15,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tt.loan.RiskFactors)

			_, err := UpdateRiskRating(tt.loan, now)
			require.NoError(t, err)
			assert.Len(t, tt.loan.RiskFactors, before+4)

			// Second run appends another four on top.
			_, err = UpdateRiskRating(tt.loan, now.Add(time.Hour))
			require.NoError(t, err)
			assert.Len(t, tt.loan.RiskFactors, before+8)
		})
	}
}

func TestUpdateRiskRating_ObservationShape(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	loan := perfectLoan()

	rating, err := UpdateRiskRating(loan, now)
	require.NoError(t, err)
	assert.Equal(t, models.RatingLow, rating)

	require.Len(t, loan.RiskFactors, 4)
	expected := []struct {
		factor models.RiskFactorType
		weight float64
	}{
		{models.FactorPaymentHistory, WeightPaymentHistory},
		{models.FactorDocumentStatus, WeightDocumentStatus},
		{models.FactorCollateralValue, WeightCollateralValue},
		{models.FactorGuarantorStatus, WeightGuarantorStatus},
	}
	for i, want := range expected {
		obs := loan.RiskFactors[i]
		assert.Equal(t, want.factor, obs.Type)
		assert.Equal(t, want.weight, obs.Weight)
		assert.InDelta(t, 100*want.weight, obs.Value, 1e-9)
		assert.Equal(t, now, obs.Date)
		assert.NotEmpty(t, obs.ID)
	}
}

func TestUpdateRiskRating_AlertOnRatingChange(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	loan := perfectLoan()
	loan.RiskRating = models.RatingHigh

	rating, err := UpdateRiskRating(loan, now)

	require.NoError(t, err)
	assert.Equal(t, models.RatingLow, rating)
	assert.Equal(t, models.RatingLow, loan.RiskRating)

	require.Len(t, loan.Alerts, 1)
	alert := loan.Alerts[0]
	assert.Equal(t, models.AlertTypeDefaultRisk, alert.Type)
	assert.Equal(t, "Risk rating changed from HIGH to LOW", alert.Message)
	assert.Equal(t, now, alert.Date)
	assert.True(t, alert.IsActive)
	assert.NotEmpty(t, alert.ID)
}

func TestUpdateRiskRating_NoAlertWhenRatingUnchanged(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	loan := perfectLoan()
	loan.RiskRating = models.RatingLow

	rating, err := UpdateRiskRating(loan, now)

	require.NoError(t, err)
	assert.Equal(t, models.RatingLow, rating)
	assert.Empty(t, loan.Alerts)
}

func TestUpdateRiskRating_NoAlertOnFirstScoring(t *testing.T) {
	// A loan that has never been rated has no previous level to move from.
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	loan := perfectLoan()
	require.Empty(t, loan.RiskRating)

	rating, err := UpdateRiskRating(loan, now)

	require.NoError(t, err)
	assert.Equal(t, models.RatingLow, rating)
	assert.Empty(t, loan.Alerts)
}

func TestUpdateRiskRating_InvalidSnapshotLeavesLoanUntouched(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	loan := perfectLoan()
	loan.Guarantors = nil
	loan.RiskRating = models.RatingMedium

	_, err := UpdateRiskRating(loan, now)

	require.Error(t, err)
	assert.Equal(t, models.RatingMedium, loan.RiskRating)
	assert.Empty(t, loan.RiskFactors)
	assert.Empty(t, loan.Alerts)
}

// ==========================
// Guarantor Approval Tests
// ==========================

func TestGuarantorApproved(t *testing.T) {
	tests := []struct {
		name      string
		guarantor models.Guarantor
		expected  bool
	}{
		{"all documents approved", approvedGuarantor(), true},
		{"one document pending", pendingGuarantor(), false},
		{"no documents", models.Guarantor{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.guarantor.Approved())
		})
	}
}
