// Package chart draws category breakdowns as PNG pie charts.
package chart

import (
	"fmt"
	"io"
	"sort"

	"github.com/piresc/bahikhata/internal/pkg/models"
	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
)

// ContentType is the MIME type of rendered charts
const ContentType = "image/png"

// Options control the rendered image size
type Options struct {
	Width  int
	Height int
}

// Values converts a breakdown into labelled chart slices sorted by category name.
// Zero totals are skipped because a pie cannot draw them.
func Values(b *models.CategoryBreakdown) []gochart.Value {
	names := make([]string, 0, len(b.Categories))
	for name := range b.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]gochart.Value, 0, len(names))
	for _, name := range names {
		amount := b.Categories[name]
		if !amount.IsPositive() {
			continue
		}
		label := name
		if pct, ok := b.Percentage[name]; ok {
			label = fmt.Sprintf("%s (%s%%)", name, pct)
		}
		values = append(values, gochart.Value{
			Label: label,
			Value: amount.InexactFloat64(),
		})
	}
	return values
}

// RenderPie writes the breakdown as a PNG pie chart to w.
// Returns models.ErrNoChartData when there is nothing to draw.
func RenderPie(w io.Writer, b *models.CategoryBreakdown, opts Options) error {
	values := Values(b)
	if len(values) == 0 {
		return fmt.Errorf("%s categories: %w", b.Type, models.ErrNoChartData)
	}

	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	pie := gochart.PieChart{
		Title: fmt.Sprintf("%s by category", b.Type),
		Background: gochart.Style{
			Padding: gochart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}

	if err := pie.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
