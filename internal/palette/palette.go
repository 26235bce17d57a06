// Package palette assigns display colors to category labels.
//
// A ColorMap is built once from a RankingOrder, the category labels ordered
// from most to least significant, by walking the ranking and taking evenly
// spaced samples from a continuous Colormap. After construction a ColorMap is
// read-only: every chart that receives the same instance colors a category
// the same way, whatever that chart's own order or subset of categories.
//
// Lookup is total. A label outside the ranking gets the fallback color,
// never an error and never another label's color.
package palette

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultFallback is the neutral gray used for labels outside a ColorMap.
var DefaultFallback = mustHex("#CCCCCC")

// ColorMap is an immutable mapping from category label to color.
type ColorMap struct {
	order    []string
	colors   map[string]Color
	fallback Color
}

// Option configures Assign and Fixed.
type Option func(*settings)

type settings struct {
	size     int
	fallback Color
}

// WithSize samples the colormap at size points instead of one per ranked
// label. Labels take the first len(ranking) samples.
func WithSize(size int) Option {
	return func(s *settings) { s.size = size }
}

// WithFallback sets the color returned for labels outside the map.
func WithFallback(c Color) Option {
	return func(s *settings) { s.fallback = c }
}

// ErrEmptyLabel is returned when a ranking contains an empty label.
var ErrEmptyLabel = errors.New("palette: empty category label")

// Assign builds a ColorMap from a ranking and a continuous colormap.
//
// The i-th ranked label receives the i-th of size evenly spaced samples,
// so the first label gets the colormap's start color and, with the default
// size, the last label gets its end color. The result depends only on the
// ranking, the colormap and the options.
func Assign(ranking []string, cmap Colormap, opts ...Option) (*ColorMap, error) {
	s := settings{size: len(ranking), fallback: DefaultFallback}
	for _, opt := range opts {
		opt(&s)
	}

	if s.size < len(ranking) {
		return nil, fmt.Errorf("palette: size %d is smaller than ranking of %d labels", s.size, len(ranking))
	}
	if err := checkLabels(ranking); err != nil {
		return nil, err
	}

	samples := cmap.Sample(s.size)
	m := &ColorMap{
		order:    slices.Clone(ranking),
		colors:   make(map[string]Color, len(ranking)),
		fallback: s.fallback,
	}
	for i, label := range ranking {
		m.colors[label] = samples[i]
	}

	return m, nil
}

// Entry is an explicit label/color pair for Fixed.
type Entry struct {
	Label string
	Color Color
}

// Fixed builds a ColorMap from explicit colors, in the given order.
func Fixed(entries []Entry, opts ...Option) (*ColorMap, error) {
	s := settings{fallback: DefaultFallback}
	for _, opt := range opts {
		opt(&s)
	}

	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	if err := checkLabels(labels); err != nil {
		return nil, err
	}

	m := &ColorMap{
		order:    labels,
		colors:   make(map[string]Color, len(entries)),
		fallback: s.fallback,
	}
	for _, e := range entries {
		m.colors[e.Label] = e.Color
	}

	return m, nil
}

func checkLabels(labels []string) error {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l == "" {
			return ErrEmptyLabel
		}
		if seen[l] {
			return fmt.Errorf("palette: duplicate category label %q", l)
		}
		seen[l] = true
	}
	return nil
}

// Lookup returns the color of a label, or the fallback color.
func (m *ColorMap) Lookup(label string) Color {
	if c, ok := m.colors[label]; ok {
		return c
	}
	return m.fallback
}

// Has reports whether the label has an assigned color.
func (m *ColorMap) Has(label string) bool {
	_, ok := m.colors[label]
	return ok
}

// Len returns the number of assigned labels.
func (m *ColorMap) Len() int { return len(m.order) }

// Labels returns the assigned labels in assignment order.
func (m *ColorMap) Labels() []string { return slices.Clone(m.order) }

// Fallback returns the color used for unknown labels.
func (m *ColorMap) Fallback() Color { return m.fallback }

// Colors returns the colors for labels, in the same order, falling back as
// Lookup does.
func (m *ColorMap) Colors(labels []string) []Color {
	out := make([]Color, len(labels))
	for i, l := range labels {
		out[i] = m.Lookup(l)
	}
	return out
}

func mustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
