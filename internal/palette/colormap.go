package palette

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with opacity.
type Color struct {
	colorful.Color
	Alpha float64
}

// Opaque wraps an RGB color with full opacity.
func Opaque(c colorful.Color) Color {
	return Color{Color: c, Alpha: 1}
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Opaque(c), nil
}

// WithAlpha returns a copy of c with the given opacity.
func (c Color) WithAlpha(alpha float64) Color {
	c.Alpha = alpha
	return c
}

// RGBHex returns the color as "RRGGBB" in upper case, the form spreadsheet
// fills expect. Opacity is not part of the result.
func (c Color) RGBHex() string {
	return strings.ToUpper(strings.TrimPrefix(c.Clamped().Hex(), "#"))
}

// NRGBA returns the color with 8-bit channels and straight alpha.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(c.Alpha) * 255))}
}

// String formats the color as "#rrggbb" or "#rrggbb@0.65".
func (c Color) String() string {
	if c.Alpha >= 1 {
		return c.Clamped().Hex()
	}
	return fmt.Sprintf("%s@%.2f", c.Clamped().Hex(), c.Alpha)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Colormap is a continuous palette defined by evenly spaced anchor colors
// and linear interpolation in RGB between them.
type Colormap struct {
	name  string
	stops []colorful.Color
}

// NewColormap builds a Colormap from hex anchor colors. It panics on invalid
// input and is meant for package-level palette definitions.
func NewColormap(name string, hexStops ...string) Colormap {
	if len(hexStops) == 0 {
		panic("palette: colormap " + name + " has no stops")
	}
	stops := make([]colorful.Color, len(hexStops))
	for i, h := range hexStops {
		c, err := ParseHex(h)
		if err != nil {
			panic("palette: colormap " + name + ": " + err.Error())
		}
		stops[i] = c.Color
	}
	return Colormap{name: name, stops: stops}
}

// Name returns the colormap name.
func (c Colormap) Name() string { return c.name }

// At returns the color at position t in [0, 1]. Values outside are clamped.
func (c Colormap) At(t float64) Color {
	if len(c.stops) == 1 || t <= 0 {
		return Opaque(c.stops[0])
	}
	if t >= 1 {
		return Opaque(c.stops[len(c.stops)-1])
	}

	pos := t * float64(len(c.stops)-1)
	lower := int(pos)
	frac := pos - float64(lower)
	return Opaque(c.stops[lower].BlendRgb(c.stops[lower+1], frac))
}

// Sample returns n colors at evenly spaced positions from 0 to 1 inclusive.
// A single sample is taken at 0.
func (c Colormap) Sample(n int) []Color {
	out := make([]Color, n)
	for i := range out {
		var t float64
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = c.At(t)
	}
	return out
}

// Spectral is the ColorBrewer diverging Spectral scheme, red through yellow
// to blue.
var Spectral = NewColormap("spectral",
	"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
	"#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
)

// Viridis is the perceptually uniform viridis scheme.
var Viridis = NewColormap("viridis",
	"#440154", "#482374", "#404387", "#345e8d", "#29788e", "#20908c",
	"#22a784", "#44be70", "#79d151", "#bdde26", "#fde725",
)

// ByName returns a predefined colormap.
func ByName(name string) (Colormap, error) {
	switch strings.ToLower(name) {
	case "spectral":
		return Spectral, nil
	case "viridis":
		return Viridis, nil
	default:
		return Colormap{}, fmt.Errorf("unknown palette %q", name)
	}
}
