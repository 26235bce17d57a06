package chart

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ginjaninja78/sharecharts/internal/aggregate"
	"github.com/ginjaninja78/sharecharts/internal/palette"
)

// BarSpec describes one stacked bar chart.
type BarSpec struct {
	Title  string
	XLabel string
	YLabel string

	// Table supplies one bar per period and one segment per category,
	// stacked bottom-up in the table's category order.
	Table *aggregate.Table

	Colors *palette.ColorMap

	// Percent treats table values as percentages: the Y axis is formatted
	// as percent and segments at or below LabelThreshold percent are not
	// labeled.
	Percent        bool
	LabelThreshold float64

	// Width and Height are in pixels.
	Width  int
	Height int
}

// pixel converts a pixel count to a vg length at the PNG backend's 96 DPI.
func pixel(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

// StackedBar renders a PNG stacked bar chart to w with centered, white
// in-segment labels.
func StackedBar(w io.Writer, spec BarSpec) error {
	periods := spec.Table.Periods()
	categories := spec.Table.Categories()
	if len(periods) == 0 || len(categories) == 0 {
		return ErrEmpty
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.Legend.Top = true
	p.Legend.Left = true

	names := make([]string, len(periods))
	for i, period := range periods {
		names[i] = strconv.Itoa(period)
	}

	barWidth := pixel(spec.Width) / vg.Length(2*len(periods))

	var below *plotter.BarChart
	bottoms := make([]float64, len(periods))
	var labelXYs []plotter.XY
	var labelTexts []string

	for _, category := range categories {
		values := make(plotter.Values, len(periods))
		for i, period := range periods {
			values[i] = spec.Table.Value(period, category)
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to build bars for %s: %w", category, err)
		}
		bars.Color = spec.Colors.Lookup(category).NRGBA()
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		below = bars

		p.Add(bars)
		p.Legend.Add(category, bars)

		for i, v := range values {
			if v > 0 && (!spec.Percent || v > spec.LabelThreshold) {
				labelXYs = append(labelXYs, plotter.XY{X: float64(i), Y: bottoms[i] + v/2})
				labelTexts = append(labelTexts, formatSegment(v, spec.Percent))
			}
			bottoms[i] += v
		}
	}

	if len(labelXYs) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labelTexts})
		if err != nil {
			return fmt.Errorf("failed to build segment labels: %w", err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = color.White
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
			labels.TextStyle[i].Font.Size = vg.Points(9)
		}
		p.Add(labels)
	}

	p.NominalX(names...)
	p.Add(plotter.NewGrid())
	p.Y.Min = 0
	if spec.Percent {
		p.Y.Tick.Marker = percentTicks{}
	}

	writer, err := p.WriterTo(pixel(spec.Width), pixel(spec.Height), "png")
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := writer.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write stacked bar chart %q: %w", spec.Title, err)
	}
	return nil
}

func formatSegment(v float64, percent bool) string {
	if percent {
		return fmt.Sprintf("%.0f%%", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// percentTicks labels the default ticks as percentages of 100.
type percentTicks struct{}

func (percentTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = fmt.Sprintf("%.0f%%", ticks[i].Value)
		}
	}
	return ticks
}
