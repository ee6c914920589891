package apiclient

import (
	"encoding/json"
	"time"

	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
)

// wireVoucher is the record as the server stores it. The storage identifier
// arrives as "_id"; some deployments expose a plain "id" instead.
type wireVoucher struct {
	MongoID         string  `json:"_id"`
	ID              string  `json:"id"`
	VoucherNumber   string  `json:"voucherNumber"`
	Association     string  `json:"association"`
	FinancialYear   string  `json:"financialYear"`
	Date            string  `json:"date"`
	Payee           string  `json:"payee"`
	Amount          float64 `json:"amount"`
	Purpose         string  `json:"purpose"`
	ApprovedBy      string  `json:"approvedBy"`
	Status          string  `json:"status"`
	RejectionReason string  `json:"rejectionReason"`
}

// reshape maps a server record onto the client-facing form: the storage
// identifier becomes ID and the date is formatted for display.
func reshape(raw json.RawMessage) (*voucher.Voucher, error) {
	var w wireVoucher
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	id := w.MongoID
	if id == "" {
		id = w.ID
	}

	return &voucher.Voucher{
		ID:              id,
		VoucherNumber:   w.VoucherNumber,
		Association:     w.Association,
		FinancialYear:   w.FinancialYear,
		Date:            formatDisplayDate(w.Date),
		Payee:           w.Payee,
		Amount:          w.Amount,
		Purpose:         w.Purpose,
		ApprovedBy:      w.ApprovedBy,
		Status:          voucher.Status(w.Status),
		RejectionReason: w.RejectionReason,
	}, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// formatDisplayDate renders an ISO-ish server date as dd/mm/yyyy. A value
// that parses as neither form is returned unchanged.
func formatDisplayDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}
