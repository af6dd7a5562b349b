// internal/workers/bankbook/refresh-bankbook/models.go
package refreshbankbook

// Output summarizes one bankbook refresh run.
type Output struct {
	Accounts      int `json:"accounts"`
	RowsProjected int `json:"rowsProjected"`
	Warnings      int `json:"warnings"`
}
