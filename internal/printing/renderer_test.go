package printing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestRender_NilVoucherRendersNothing(t *testing.T) {
	r := NewSheetRenderer(zap.NewNop())

	path, err := r.Render(nil)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestRender_LaysOutVoucherPage(t *testing.T) {
	r := NewSheetRenderer(zap.NewNop())

	path, err := r.Render(&voucher.Voucher{
		ID:            "66f1",
		VoucherNumber: "NAI/2025-26/0007",
		Association:   "Nunchaku Association of India",
		Date:          "29/08/2025",
		Payee:         "Acme",
		Amount:        150000,
		Purpose:       "Supplies",
		ApprovedBy:    "Jane",
		Status:        voucher.StatusDraft,
	})
	require.NoError(t, err)
	defer os.Remove(path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue("Voucher", ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Voucher Details", cell("A1"))
	assert.Equal(t, "Nunchaku Association of India", cell("A2"))
	assert.Equal(t, "#66f1", cell("B4"))
	assert.Equal(t, "NAI/2025-26/0007", cell("B5"))
	assert.Equal(t, "Acme", cell("B6"))
	assert.Equal(t, "₹1,50,000", cell("B7"))
	assert.Equal(t, "Supplies", cell("B8"))
	assert.Equal(t, "29/08/2025", cell("B9"))
	assert.Equal(t, "Jane", cell("B10"))
	assert.Equal(t, "draft", cell("B11"))
	assert.Contains(t, cell("A13"), "Generated on ")
}

func TestRender_IncludesRejectionReason(t *testing.T) {
	r := NewSheetRenderer(zap.NewNop())

	path, err := r.Render(&voucher.Voucher{
		ID:              "66f2",
		Status:          voucher.StatusRejected,
		RejectionReason: "duplicate claim",
	})
	require.NoError(t, err)
	defer os.Remove(path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	reason, err := f.GetCellValue("Voucher", "B12")
	require.NoError(t, err)
	assert.Equal(t, "duplicate claim", reason)
}

func TestDirSpooler_MovesPageIntoTray(t *testing.T) {
	staged := filepath.Join(t.TempDir(), "staged.xlsx")
	require.NoError(t, os.WriteFile(staged, []byte("page"), 0644))

	tray := filepath.Join(t.TempDir(), "printed")
	final, err := DirSpooler{Dir: tray}.Spool(staged, "Voucher-66f1.xlsx")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tray, "Voucher-66f1.xlsx"), final)
	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "page", string(data))

	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err), "staged page should be cleaned up")
}
