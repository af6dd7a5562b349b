// internal/workers/risk/rescore-loans/models.go
package rescoreloans

// Input selects the loans to rescore. With no explicit ids the handler
// builds a batch of stale loans itself.
type Input struct {
	LoanIDs []string `json:"loanIds,omitempty"`
}

// Output summarizes one rescoring run.
type Output struct {
	Scored        int      `json:"scored"`
	Skipped       int      `json:"skipped"`
	RatingChanges int      `json:"ratingChanges"`
	SkippedLoans  []string `json:"skippedLoans,omitempty"`
}
