// Package spreadsheet renders transaction statements as xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the single worksheet of an exported statement
	SheetName = "User Transaction"
	// ContentType is the MIME type of the generated workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// FileName is suggested to the browser in Content-Disposition
	FileName = "user_transactions.xlsx"
)

type column struct {
	header string
	width  float64
}

var columns = []column{
	{header: "S No.", width: 15},
	{header: "Date", width: 15},
	{header: "Amount", width: 15},
	{header: "Type", width: 15},
	{header: "Category", width: 15},
	{header: "Description", width: 20},
}

// Headers returns the header row in column order
func Headers() []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = col.header
	}
	return out
}

// Build creates the statement workbook. Rows follow the order of txns.
// The caller owns the returned file and must Close it.
func Build(txns []*models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, col.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
		header[i] = col.header
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, txn := range txns {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			i + 1,
			txn.Date.Format(models.DateLayout),
			txn.Amount.InexactFloat64(),
			string(txn.Type),
			txn.Category,
			txn.Description,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return f, nil
}

// Write builds the workbook and streams it to w
func Write(w io.Writer, txns []*models.Transaction) error {
	f, err := Build(txns)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
