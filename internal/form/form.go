// Package form implements the voucher creation form: default field values,
// completeness validation and the submit lifecycle. It holds its own state
// and pushes the created record out through an optional callback; rendering
// belongs to the caller.
package form

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/nunchaku-india/voucher-desk/internal/apiclient"
	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"go.uber.org/zap"
)

// API is the slice of the voucher client the form needs.
type API interface {
	CreateVoucher(ctx context.Context, req apiclient.CreateRequest) (*voucher.Voucher, error)
}

// Defaults seeds the editable fields on reset.
type Defaults struct {
	Association   string
	FinancialYear string
}

// Form is the creation-form component. Fields are the editable draft values;
// Saving, Err, Success and Created describe the last submit.
type Form struct {
	Association   string
	FinancialYear string
	Date          string // ISO yyyy-mm-dd
	Payee         string
	Amount        string
	Purpose       string
	ApprovedBy    string

	Saving  bool
	Err     string
	Success bool
	Created *voucher.Voucher

	api       API
	defaults  Defaults
	onCreated func(*voucher.Voucher)
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a form initialized to its defaults. onCreated may be nil.
func New(api API, defaults Defaults, onCreated func(*voucher.Voucher), logger *zap.Logger) *Form {
	f := &Form{
		api:       api,
		defaults:  defaults,
		onCreated: onCreated,
		logger:    logger,
		now:       time.Now,
	}
	f.Reset()
	return f
}

// Reset returns the editable fields to their defaults: configured association
// and financial year, today's date, everything else empty. Submit-outcome
// state (Err, Success, Created) is left alone so the success notice survives
// the reset that follows a successful creation.
func (f *Form) Reset() {
	f.Association = f.defaults.Association
	f.FinancialYear = f.defaults.FinancialYear
	f.Date = f.now().Format("2006-01-02")
	f.Payee = ""
	f.Amount = ""
	f.Purpose = ""
	f.ApprovedBy = ""
}

// Submit validates the draft and creates the voucher. On success the created
// record is retained for display, the parent is notified and the fields reset
// to defaults; on failure the message is stored and the user's input kept for
// correction. Saving is cleared on every path.
func (f *Form) Submit(ctx context.Context) {
	f.Saving = true
	f.Err = ""
	f.Success = false
	f.Created = nil
	defer func() { f.Saving = false }()

	if strings.TrimSpace(f.Payee) == "" ||
		strings.TrimSpace(f.Amount) == "" ||
		strings.TrimSpace(f.Purpose) == "" ||
		strings.TrimSpace(f.ApprovedBy) == "" {
		f.Err = "Please fill all required fields"
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64)
	if err != nil {
		f.Err = "Amount must be a number"
		return
	}

	created, err := f.api.CreateVoucher(ctx, apiclient.CreateRequest{
		Association:   f.Association,
		FinancialYear: f.FinancialYear,
		Date:          f.Date,
		Payee:         f.Payee,
		Amount:        amount,
		Purpose:       f.Purpose,
		ApprovedBy:    f.ApprovedBy,
	})
	if err != nil {
		f.Err = err.Error()
		return
	}

	f.logger.Info("voucher created",
		zap.String("id", created.ID),
		zap.String("voucher_number", created.VoucherNumber))

	if f.onCreated != nil {
		f.onCreated(created)
	}
	f.Created = created
	f.Success = true
	f.Reset()
}
