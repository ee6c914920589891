package list

import (
	"context"
	"testing"

	"github.com/nunchaku-india/voucher-desk/internal/apiclient"
	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	fetches     int
	fetchResult []voucher.Voucher
	fetchErr    error

	deletes    int
	deleteErr  error
	approves   int
	approvedBy string
	approveErr error
	rejects    int
	reason     string
	rejectErr  error
}

func (f *fakeAPI) FetchVouchers(context.Context) ([]voucher.Voucher, error) {
	f.fetches++
	return f.fetchResult, f.fetchErr
}

func (f *fakeAPI) DeleteVoucher(context.Context, string) (map[string]interface{}, error) {
	f.deletes++
	return map[string]interface{}{"data": nil}, f.deleteErr
}

func (f *fakeAPI) ApproveVoucher(_ context.Context, _ string, approvedBy string) (*voucher.Voucher, error) {
	f.approves++
	f.approvedBy = approvedBy
	return &voucher.Voucher{}, f.approveErr
}

func (f *fakeAPI) RejectVoucher(_ context.Context, _ string, reason string) (*voucher.Voucher, error) {
	f.rejects++
	f.reason = reason
	return &voucher.Voucher{}, f.rejectErr
}

// scriptedDialog answers dialogs from canned values and records alerts.
type scriptedDialog struct {
	confirmAnswer bool
	reason        string
	reasonOK      bool
	alerts        []string
}

func (d *scriptedDialog) Confirm(string) bool { return d.confirmAnswer }

func (d *scriptedDialog) PromptReason(string) (string, bool) { return d.reason, d.reasonOK }

func (d *scriptedDialog) Alert(message string) { d.alerts = append(d.alerts, message) }

type fakePrinter struct {
	prints int
	err    error
}

func (p *fakePrinter) Print(context.Context, *voucher.Voucher) (string, error) {
	p.prints++
	return "/out/page.xlsx", p.err
}

func newList(api *fakeAPI, dialog *scriptedDialog) *List {
	return New(api, dialog, &fakePrinter{}, "system", zap.NewNop())
}

func TestLoad(t *testing.T) {
	api := &fakeAPI{fetchResult: []voucher.Voucher{{ID: "a"}, {ID: "b"}}}
	l := newList(api, &scriptedDialog{})

	l.Load(context.Background())

	assert.Equal(t, 2, l.Count())
	assert.Empty(t, l.Err())
	assert.False(t, l.Loading())
}

func TestLoad_ErrorKeepsMessageForRetry(t *testing.T) {
	api := &fakeAPI{fetchErr: &apiclient.Error{Message: "Failed to fetch vouchers"}}
	l := newList(api, &scriptedDialog{})

	l.Load(context.Background())
	assert.Equal(t, "Failed to fetch vouchers", l.Err())
	assert.False(t, l.Loading())

	// Retry re-invokes the same load and clears the error on success.
	api.fetchErr = nil
	api.fetchResult = []voucher.Voucher{{ID: "a"}}
	l.Load(context.Background())
	assert.Empty(t, l.Err())
	assert.Equal(t, 1, l.Count())
}

func TestDelete_MissingID(t *testing.T) {
	api := &fakeAPI{}
	dialog := &scriptedDialog{confirmAnswer: true}
	l := newList(api, dialog)

	l.Delete(context.Background(), "")

	assert.Zero(t, api.deletes, "no network call may be issued")
	assert.Equal(t, []string{"Error: Voucher ID is missing"}, dialog.alerts)
}

func TestDelete_DeclinedConfirmation(t *testing.T) {
	api := &fakeAPI{}
	dialog := &scriptedDialog{confirmAnswer: false}
	l := newList(api, dialog)

	l.Delete(context.Background(), "v1")

	assert.Zero(t, api.deletes)
	assert.Empty(t, dialog.alerts)
}

func TestDelete_SuccessReloads(t *testing.T) {
	api := &fakeAPI{}
	l := newList(api, &scriptedDialog{confirmAnswer: true})

	l.Delete(context.Background(), "v1")

	assert.Equal(t, 1, api.deletes)
	assert.Equal(t, 1, api.fetches, "mutations reconcile via a full reload")
}

func TestDelete_FailureAlerts(t *testing.T) {
	api := &fakeAPI{deleteErr: &apiclient.Error{Message: "voucher is approved"}}
	dialog := &scriptedDialog{confirmAnswer: true}
	l := newList(api, dialog)

	l.Delete(context.Background(), "v1")

	require.Len(t, dialog.alerts, 1)
	assert.Equal(t, "Failed to delete voucher: voucher is approved", dialog.alerts[0])
	assert.Zero(t, api.fetches, "no reload after a failed mutation")
}

func TestApprove_SuccessReloadsWithOperator(t *testing.T) {
	api := &fakeAPI{}
	l := newList(api, &scriptedDialog{})

	l.Approve(context.Background(), "v1")

	assert.Equal(t, 1, api.approves)
	assert.Equal(t, "system", api.approvedBy)
	assert.Equal(t, 1, api.fetches)
}

func TestApprove_MissingIDAndFailure(t *testing.T) {
	api := &fakeAPI{approveErr: &apiclient.Error{Message: "Failed to approve voucher"}}
	dialog := &scriptedDialog{}
	l := newList(api, dialog)

	l.Approve(context.Background(), "")
	assert.Zero(t, api.approves)

	l.Approve(context.Background(), "v1")
	assert.Equal(t, []string{
		"Error: Voucher ID is missing",
		"Failed to approve voucher: Failed to approve voucher",
	}, dialog.alerts)
}

func TestReject_CancelledOrEmptyReasonAborts(t *testing.T) {
	api := &fakeAPI{}

	l := newList(api, &scriptedDialog{reasonOK: false})
	l.Reject(context.Background(), "v1")
	assert.Zero(t, api.rejects)

	l = newList(api, &scriptedDialog{reason: "", reasonOK: true})
	l.Reject(context.Background(), "v1")
	assert.Zero(t, api.rejects)
}

func TestReject_SuccessReloads(t *testing.T) {
	api := &fakeAPI{}
	l := newList(api, &scriptedDialog{reason: "duplicate claim", reasonOK: true})

	l.Reject(context.Background(), "v1")

	assert.Equal(t, 1, api.rejects)
	assert.Equal(t, "duplicate claim", api.reason)
	assert.Equal(t, 1, api.fetches)
}

func TestPrint_ClearsSelectionAfterwards(t *testing.T) {
	printer := &fakePrinter{}
	l := New(&fakeAPI{}, &scriptedDialog{}, printer, "system", zap.NewNop())

	l.Print(context.Background(), voucher.Voucher{ID: "v1"})

	assert.Equal(t, 1, printer.prints)
	assert.Nil(t, l.Selected())
}

func TestPrint_FailureAlerts(t *testing.T) {
	dialog := &scriptedDialog{}
	printer := &fakePrinter{err: &apiclient.Error{Message: "spooler offline"}}
	l := New(&fakeAPI{}, dialog, printer, "system", zap.NewNop())

	l.Print(context.Background(), voucher.Voucher{ID: "v1"})

	require.Len(t, dialog.alerts, 1)
	assert.Equal(t, "Failed to print voucher: spooler offline", dialog.alerts[0])
	assert.Nil(t, l.Selected())
}

func TestActions_GatedByStatus(t *testing.T) {
	l := newList(&fakeAPI{}, &scriptedDialog{})

	assert.Equal(t,
		[]voucher.Action{voucher.ActionPrint, voucher.ActionApprove, voucher.ActionReject, voucher.ActionDelete},
		l.Actions(voucher.Voucher{Status: voucher.StatusDraft}))
	assert.Equal(t,
		[]voucher.Action{voucher.ActionPrint, voucher.ActionDelete},
		l.Actions(voucher.Voucher{Status: voucher.StatusRejected}))
	assert.Equal(t,
		[]voucher.Action{voucher.ActionPrint},
		l.Actions(voucher.Voucher{Status: voucher.StatusApproved}))
	assert.Equal(t,
		[]voucher.Action{voucher.ActionPrint},
		l.Actions(voucher.Voucher{Status: voucher.StatusPending}))
}
