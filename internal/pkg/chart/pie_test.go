package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incomeBreakdown() *models.CategoryBreakdown {
	return &models.CategoryBreakdown{
		Type:  models.Credit,
		Total: decimal.NewFromInt(100),
		Categories: map[string]decimal.Decimal{
			"Salary": decimal.NewFromInt(80),
			"Gift":   decimal.NewFromInt(20),
			"Bonus":  decimal.Zero,
		},
		Percentage: map[string]string{
			"Salary": "80.0",
			"Gift":   "20.0",
			"Bonus":  "0.0",
		},
	}
}

func TestValues(t *testing.T) {
	values := Values(incomeBreakdown())

	require.Len(t, values, 2)
	assert.Equal(t, "Gift (20.0%)", values[0].Label)
	assert.Equal(t, 20.0, values[0].Value)
	assert.Equal(t, "Salary (80.0%)", values[1].Label)
	assert.Equal(t, 80.0, values[1].Value)
}

func TestRenderPie(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPie(&buf, incomeBreakdown(), Options{Width: 320, Height: 240}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestRenderPie_NoData(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPie(&buf, &models.CategoryBreakdown{Type: models.Debit}, Options{})

	assert.ErrorIs(t, err, models.ErrNoChartData)
	assert.Zero(t, buf.Len())
}
