// =============================================================================
// sharecharts - Chart Renderer
// =============================================================================
//
// This package draws the charts. Every element is colored through a
// palette.ColorMap lookup, so a category keeps its color across charts no
// matter which subset or order a chart shows.
//
// OUTPUTS:
//   - Pie:        PNG pie of one scope's shares (go-chart)
//   - StackedBar: PNG stacked bars of a period × category table (gonum/plot)
//   - Workbook:   XLSX with data sheets and native charts (excelize)
//
// =============================================================================

package chart

import (
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ginjaninja78/sharecharts/internal/aggregate"
	"github.com/ginjaninja78/sharecharts/internal/palette"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("chart: nothing to draw")

// PieSpec describes one pie chart.
type PieSpec struct {
	Title string

	// Shares are drawn in the given order, one slice each. Shares with a
	// zero total are skipped.
	Shares []aggregate.Share

	Colors *palette.ColorMap

	// Width and Height are in pixels.
	Width  int
	Height int
}

// Pie renders a PNG pie chart to w.
//
// Slices are labeled "label pct%" with one decimal place. The first slice,
// the largest when shares come sorted from the aggregator, gets a dark
// outline.
func Pie(w io.Writer, spec PieSpec) error {
	labels := make([]string, len(spec.Shares))
	for i, s := range spec.Shares {
		labels[i] = s.Category
	}
	fills := spec.Colors.Colors(labels)

	values := make([]gochart.Value, 0, len(spec.Shares))
	for i, s := range spec.Shares {
		if s.Total <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s.Category, s.Percent),
			Value: s.Total,
			Style: sliceStyle(fills[i], i == 0),
		})
	}

	if len(values) == 0 {
		return ErrEmpty
	}

	pie := gochart.PieChart{
		Title: spec.Title,
		TitleStyle: gochart.Style{
			FontSize: 16,
		},
		Width:  spec.Width,
		Height: spec.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
	}

	if err := pie.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render pie chart %q: %w", spec.Title, err)
	}
	return nil
}

// emphasisStroke outlines the largest slice.
var emphasisStroke = drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 255}

// sliceStyle styles one pie slice. The emphasized slice gets a dark outline
// that stays visible against the white gaps between slices.
func sliceStyle(fill palette.Color, emphasize bool) gochart.Style {
	style := gochart.Style{
		FillColor:   toDrawing(fill),
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 1,
		FontSize:    9,
		FontColor:   drawing.ColorBlack,
	}
	if emphasize {
		style.StrokeColor = emphasisStroke
		style.StrokeWidth = 2.5
	}
	return style
}

func toDrawing(c palette.Color) drawing.Color {
	n := c.NRGBA()
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
