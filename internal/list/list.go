// Package list implements the voucher list component: loading the collection,
// the approve/reject/delete flows with their blocking dialogs, and the print
// trigger. The component owns the collection and the printing selection; the
// UI layer renders its state and calls its handlers.
package list

import (
	"context"
	"sync"

	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"go.uber.org/zap"
)

// API is the slice of the voucher client the list needs.
type API interface {
	FetchVouchers(ctx context.Context) ([]voucher.Voucher, error)
	DeleteVoucher(ctx context.Context, id string) (map[string]interface{}, error)
	ApproveVoucher(ctx context.Context, id, approvedBy string) (*voucher.Voucher, error)
	RejectVoucher(ctx context.Context, id, reason string) (*voucher.Voucher, error)
}

// Dialog provides the blocking user interactions the action flows need.
// Implementations suspend the calling goroutine until the user answers.
type Dialog interface {
	Confirm(message string) bool
	PromptReason(message string) (string, bool)
	Alert(message string)
}

// Printer runs the print pipeline for one voucher.
type Printer interface {
	Print(ctx context.Context, v *voucher.Voucher) (string, error)
}

// List is the voucher list component. Actions may overlap (there is no
// request de-duplication), so shared state is guarded.
type List struct {
	api      API
	dialog   Dialog
	printer  Printer
	operator string // actor name sent on approve
	logger   *zap.Logger

	mu       sync.Mutex
	vouchers []voucher.Voucher
	selected *voucher.Voucher
	loading  bool
	err      string
}

// New creates a list component. operator is the actor recorded on approvals;
// empty falls back to the client's own default.
func New(api API, dialog Dialog, printer Printer, operator string, logger *zap.Logger) *List {
	return &List{
		api:      api,
		dialog:   dialog,
		printer:  printer,
		operator: operator,
		logger:   logger,
	}
}

// Vouchers returns the loaded collection.
func (l *List) Vouchers() []voucher.Voucher {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vouchers
}

// Count returns the number of loaded vouchers.
func (l *List) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.vouchers)
}

// Selected returns the voucher currently selected for printing, or nil.
func (l *List) Selected() *voucher.Voucher {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// Loading reports whether a load is in flight.
func (l *List) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Err returns the last load error message, empty when the load succeeded.
func (l *List) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Actions returns the controls to offer for a voucher, gated by its status.
func (l *List) Actions(v voucher.Voucher) []voucher.Action {
	return voucher.AllowedActions(v.Status)
}

// Load fetches the full collection, replacing the local copy. On failure the
// message is stored for the error view; the loading flag clears either way.
func (l *List) Load(ctx context.Context) {
	l.mu.Lock()
	l.loading = true
	l.err = ""
	l.mu.Unlock()

	vs, err := l.api.FetchVouchers(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.logger.Warn("failed to load vouchers", zap.Error(err))
		l.err = err.Error()
		return
	}
	l.vouchers = vs
}

// Delete removes a voucher after user confirmation, then reloads. Every
// mutation reconciles by reloading so rows always show server-authoritative
// state.
func (l *List) Delete(ctx context.Context, id string) {
	if id == "" {
		l.dialog.Alert("Error: Voucher ID is missing")
		return
	}
	if !l.dialog.Confirm("Are you sure you want to delete this voucher?") {
		return
	}

	if _, err := l.api.DeleteVoucher(ctx, id); err != nil {
		l.dialog.Alert("Failed to delete voucher: " + err.Error())
		return
	}
	l.Load(ctx)
}

// Approve moves a voucher to approved, recording the configured operator,
// then reloads.
func (l *List) Approve(ctx context.Context, id string) {
	if id == "" {
		l.dialog.Alert("Error: Voucher ID is missing")
		return
	}

	if _, err := l.api.ApproveVoucher(ctx, id, l.operator); err != nil {
		l.dialog.Alert("Failed to approve voucher: " + err.Error())
		return
	}
	l.Load(ctx)
}

// Reject asks for a reason and moves the voucher to rejected, then reloads.
// Cancelling the prompt, or leaving the reason empty, aborts silently.
func (l *List) Reject(ctx context.Context, id string) {
	if id == "" {
		l.dialog.Alert("Error: Voucher ID is missing")
		return
	}

	reason, ok := l.dialog.PromptReason("Please provide a reason for rejection:")
	if !ok || reason == "" {
		return
	}

	if _, err := l.api.RejectVoucher(ctx, id, reason); err != nil {
		l.dialog.Alert("Failed to reject voucher: " + err.Error())
		return
	}
	l.Load(ctx)
}

// Print selects the voucher and runs the print pipeline; the selection is
// cleared once the pipeline finishes, whatever the outcome.
func (l *List) Print(ctx context.Context, v voucher.Voucher) {
	l.mu.Lock()
	l.selected = &v
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.selected = nil
		l.mu.Unlock()
	}()

	if _, err := l.printer.Print(ctx, &v); err != nil {
		l.dialog.Alert("Failed to print voucher: " + err.Error())
	}
}
