package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/nunchaku-india/voucher-desk/internal/apiclient"
	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newFixture serves the contract from an in-memory store and returns the
// front end's own client pointed at it, so these tests exercise both sides
// of the wire.
func newFixture(t *testing.T) *apiclient.Client {
	t.Helper()

	store, err := NewStore(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := New(Config{}, store, zap.NewNop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return apiclient.New(ts.URL, 0, zap.NewNop())
}

func createDraft(t *testing.T, c *apiclient.Client) *voucher.Voucher {
	t.Helper()
	v, err := c.CreateVoucher(context.Background(), apiclient.CreateRequest{
		Association:   "Nunchaku Association of India",
		FinancialYear: "2025-26",
		Date:          "2025-08-29",
		Payee:         "Acme",
		Amount:        1500,
		Purpose:       "Supplies",
		ApprovedBy:    "Jane",
	})
	require.NoError(t, err)
	return v
}

func TestCreateAndList(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()

	created := createDraft(t, c)
	assert.Equal(t, voucher.StatusDraft, created.Status)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "NAI/2025-26/0001", created.VoucherNumber)

	got, err := c.FetchVouchers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
	assert.Equal(t, "29/08/2025", got[0].Date)
	assert.Equal(t, "₹1,500", voucher.FormatINR(got[0].Amount))

	// Voucher numbers run sequentially per financial year.
	second := createDraft(t, c)
	assert.Equal(t, "NAI/2025-26/0002", second.VoucherNumber)
}

func TestCreate_RejectsIncompletePayload(t *testing.T) {
	c := newFixture(t)

	_, err := c.CreateVoucher(context.Background(), apiclient.CreateRequest{
		Amount: 100, Purpose: "Supplies", ApprovedBy: "Jane",
	})
	require.Error(t, err)
	assert.Equal(t, "payee, amount, purpose and approvedBy are required", err.Error())
}

func TestApproveFlow(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()
	created := createDraft(t, c)

	approved, err := c.ApproveVoucher(ctx, created.ID, "treasurer")
	require.NoError(t, err)
	assert.Equal(t, voucher.StatusApproved, approved.Status)
	assert.Equal(t, "treasurer", approved.ApprovedBy)

	// The reloaded list reflects the server's state, not a local patch.
	got, err := c.FetchVouchers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, voucher.StatusApproved, got[0].Status)

	// Approving again is an illegal transition.
	_, err = c.ApproveVoucher(ctx, created.ID, "treasurer")
	require.Error(t, err)
	assert.Equal(t, "Cannot approve a approved voucher", err.Error())
}

func TestRejectFlow(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()
	created := createDraft(t, c)

	rejected, err := c.RejectVoucher(ctx, created.ID, "duplicate claim")
	require.NoError(t, err)
	assert.Equal(t, voucher.StatusRejected, rejected.Status)
	assert.Equal(t, "duplicate claim", rejected.RejectionReason)

	// A reason is mandatory.
	another := createDraft(t, c)
	_, err = c.RejectVoucher(ctx, another.ID, "")
	require.Error(t, err)
	assert.Equal(t, "A rejection reason is required", err.Error())
}

func TestDeleteRespectsTransitionTable(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()

	draft := createDraft(t, c)
	_, err := c.DeleteVoucher(ctx, draft.ID)
	require.NoError(t, err)

	rejectedSrc := createDraft(t, c)
	_, err = c.RejectVoucher(ctx, rejectedSrc.ID, "typo")
	require.NoError(t, err)
	_, err = c.DeleteVoucher(ctx, rejectedSrc.ID)
	require.NoError(t, err)

	approvedSrc := createDraft(t, c)
	_, err = c.ApproveVoucher(ctx, approvedSrc.ID, "treasurer")
	require.NoError(t, err)
	_, err = c.DeleteVoucher(ctx, approvedSrc.ID)
	require.Error(t, err)
	assert.Equal(t, "Cannot delete a approved voucher", err.Error())

	got, err := c.FetchVouchers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, approvedSrc.ID, got[0].ID)
}

func TestGetAndUpdate(t *testing.T) {
	c := newFixture(t)
	ctx := context.Background()
	created := createDraft(t, c)

	got, err := c.GetVoucherByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Payee)

	_, err = c.GetVoucherByID(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, "Voucher not found", err.Error())

	updated, err := c.UpdateVoucher(ctx, created.ID, apiclient.CreateRequest{
		Association:   "Nunchaku Association of India",
		FinancialYear: "2025-26",
		Date:          "2025-08-30",
		Payee:         "Acme Traders",
		Amount:        1750,
		Purpose:       "Equipment",
		ApprovedBy:    "Jane",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", updated.Payee)
	assert.Equal(t, 1750.0, updated.Amount)
	assert.Equal(t, created.VoucherNumber, updated.VoucherNumber, "the voucher number never changes")
}
