package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTransactions() []*models.Transaction {
	return []*models.Transaction{
		{
			ID:          uuid.New(),
			Amount:      decimal.NewFromInt(100),
			Type:        models.Credit,
			Category:    "Salary",
			Description: "january",
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          uuid.New(),
			Amount:      decimal.RequireFromString("30.5"),
			Type:        models.Debit,
			Category:    "Food",
			Description: "lunch",
			Date:        time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTransactions()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Headers(), rows[0])
	assert.Equal(t, []string{"1", "2024-01-05", "100", "Credit", "Salary", "january"}, rows[1])
	assert.Equal(t, []string{"2", "2024-01-07", "30.5", "Debit", "Food", "lunch"}, rows[2])
}

func TestBuild_ColumnWidthsAndBoldHeader(t *testing.T) {
	f, err := Build(nil)
	require.NoError(t, err)
	defer f.Close()

	for i, want := range []float64{15, 15, 15, 15, 15, 20} {
		name, err := excelize.ColumnNumberToName(i + 1)
		require.NoError(t, err)
		width, err := f.GetColWidth(SheetName, name)
		require.NoError(t, err)
		assert.Equal(t, want, width, "column %s", name)
	}

	styleID, err := f.GetCellStyle(SheetName, "F1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
