// Package voucher holds the client-side voucher record and its lifecycle
// rules. The remote service owns the data; this package owns the shape the
// rest of the program works with and the transition table that gates actions.
package voucher

// Voucher is the client-facing record. Date carries the display form
// (dd/mm/yyyy) after the API client has reshaped the server record.
type Voucher struct {
	ID              string  `json:"id"`
	VoucherNumber   string  `json:"voucherNumber"`
	Association     string  `json:"association"`
	FinancialYear   string  `json:"financialYear"`
	Date            string  `json:"date"`
	Payee           string  `json:"payee"`
	Amount          float64 `json:"amount"`
	Purpose         string  `json:"purpose"`
	ApprovedBy      string  `json:"approvedBy"`
	Status          Status  `json:"status"`
	RejectionReason string  `json:"rejectionReason,omitempty"`
}
