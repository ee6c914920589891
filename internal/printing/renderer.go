// Package printing renders a single voucher to a printable page and runs the
// print pipeline: a print is requested, suspended until the rendered content
// has committed, then spooled to its physical destination.
package printing

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// pageSizeA4 is the excelize paper-size code for A4.
const pageSizeA4 = 9

// SheetRenderer lays one voucher out on a fixed A4 sheet.
type SheetRenderer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewSheetRenderer creates a renderer.
func NewSheetRenderer(logger *zap.Logger) *SheetRenderer {
	return &SheetRenderer{logger: logger, now: time.Now}
}

// Render writes the voucher page to a staging file and returns its path. A
// nil voucher renders nothing and returns an empty path. The footer carries a
// generation timestamp taken at render time, not the voucher's own date.
func (r *SheetRenderer) Render(v *voucher.Voucher) (string, error) {
	if v == nil {
		return "", nil
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Voucher"
	f.SetSheetName("Sheet1", sheet)

	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{Size: ptr(pageSizeA4)}); err != nil {
		r.logger.Warn("failed to set page layout", zap.Error(err))
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		r.logger.Warn("failed to set column width", zap.Error(err))
	}
	if err := f.SetColWidth(sheet, "B", "B", 48); err != nil {
		r.logger.Warn("failed to set column width", zap.Error(err))
	}

	r.setCell(f, sheet, "A1", "Voucher Details")
	r.setCell(f, sheet, "A2", v.Association)

	if heading, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err == nil {
		f.SetCellStyle(sheet, "A2", "B2", heading)
	}

	rows := []struct {
		label string
		value string
	}{
		{"Voucher ID:", "#" + v.ID},
		{"Voucher Number:", v.VoucherNumber},
		{"Payee Name:", v.Payee},
		{"Amount:", voucher.FormatINR(v.Amount)},
		{"Purpose:", v.Purpose},
		{"Date:", v.Date},
		{"Approved By:", v.ApprovedBy},
		{"Status:", v.Status.String()},
	}
	if v.RejectionReason != "" {
		rows = append(rows, struct {
			label string
			value string
		}{"Rejection Reason:", v.RejectionReason})
	}

	line := 4
	for _, row := range rows {
		r.setCell(f, sheet, fmt.Sprintf("A%d", line), row.label)
		r.setCell(f, sheet, fmt.Sprintf("B%d", line), row.value)
		line++
	}

	r.setCell(f, sheet, fmt.Sprintf("A%d", line+1),
		"Generated on "+r.now().Format("02/01/2006, 3:04:05 pm"))

	staging, err := os.CreateTemp("", "voucher-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	staging.Close()

	if err := f.SaveAs(staging.Name()); err != nil {
		os.Remove(staging.Name())
		return "", fmt.Errorf("failed to save voucher sheet: %w", err)
	}
	return staging.Name(), nil
}

// setCell sets a cell value, logging rather than failing on a bad write
func (r *SheetRenderer) setCell(f *excelize.File, sheet, cell, value string) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		r.logger.Warn("failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func ptr[T any](v T) *T { return &v }

// DirSpooler delivers rendered pages into a directory, the stand-in for the
// physical printer tray.
type DirSpooler struct {
	Dir string
}

// Spool moves the staged page into the output directory, named after the
// voucher file it was staged as, and returns the final path.
func (s DirSpooler) Spool(path, name string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	final := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read staged page: %w", err)
	}
	if err := os.WriteFile(final, data, 0644); err != nil {
		return "", fmt.Errorf("failed to spool page: %w", err)
	}
	os.Remove(path)
	return final, nil
}
