// Package spreadsheet appends workflow rows to the daily xlsx report.
package spreadsheet

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Header schema is fixed for interoperability with the office tooling that
// consumes the report ("Deposite" included).
var headerRow = []string{"Date", "Time", "User", "Headstone", "Invoice", "WO", "Deposite"}

// Row is one daily-report entry. Exactly one of Invoice and WorkOrder is
// marked per row.
type Row struct {
	Date      string
	Time      string
	User      string
	Headstone string
	Invoice   bool
	WorkOrder bool
	Deposit   string
}

// DailyReport appends rows to a persistent workbook, creating it with the
// header on first use.
type DailyReport struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// New constructs a daily report writer over the workbook at path.
func New(path string, logger zerolog.Logger) *DailyReport {
	return &DailyReport{
		path:   path,
		logger: logger.With().Str("component", "daily_report").Logger(),
	}
}

// Append adds one row after the current last row and saves the workbook.
func (d *DailyReport) Append(row Row) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, sheet, err := d.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read daily report: %w", err)
	}

	invoiceMark, workOrderMark := "", ""
	if row.Invoice {
		invoiceMark = "X"
	}
	if row.WorkOrder {
		workOrderMark = "X"
	}

	values := []string{row.Date, row.Time, row.User, row.Headstone, invoiceMark, workOrderMark, row.Deposit}
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, len(rows)+1)
		if err != nil {
			return fmt.Errorf("address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("write cell: %w", err)
		}
	}

	if err := f.SaveAs(d.path); err != nil {
		return fmt.Errorf("save daily report: %w", err)
	}
	return nil
}

func (d *DailyReport) open() (*excelize.File, string, error) {
	if _, err := os.Stat(d.path); err == nil {
		f, err := excelize.OpenFile(d.path)
		if err != nil {
			return nil, "", fmt.Errorf("open daily report: %w", err)
		}
		return f, f.GetSheetName(0), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("probe daily report: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, header := range headerRow {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			f.Close()
			return nil, "", fmt.Errorf("address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			f.Close()
			return nil, "", fmt.Errorf("write header: %w", err)
		}
	}
	return f, sheet, nil
}
