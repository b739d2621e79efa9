package overlay

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultFallbackHex is the box color for labels missing from a ColorMap.
const DefaultFallbackHex = "#FF0000"

// defaultPalette assigns the digit classes a hue sweep from red to violet.
var defaultPalette = map[string]string{
	"0": "#FF0000",
	"1": "#FF7F00",
	"2": "#FFFF00",
	"3": "#7FFF00",
	"4": "#00FF00",
	"5": "#00FF7F",
	"6": "#00FFFF",
	"7": "#007FFF",
	"8": "#0000FF",
	"9": "#7F00FF",
}

var defaultColors = mustColorMap(defaultPalette, DefaultFallbackHex)

// ColorMap resolves class labels to box colors.
//
// A ColorMap is an explicit finite table plus a fallback; lookups never depend
// on map iteration order. It is read-only after construction and safe for
// concurrent use.
type ColorMap struct {
	colors   map[string]color.RGBA
	fallback color.RGBA
}

// DefaultColorMap returns the process-wide color map for digit classes
// "0" through "9" with a red fallback.
func DefaultColorMap() ColorMap {
	return defaultColors
}

// DefaultPalette returns a copy of the default label-to-hex table.
func DefaultPalette() map[string]string {
	out := make(map[string]string, len(defaultPalette))
	for k, v := range defaultPalette {
		out[k] = v
	}
	return out
}

// NewColorMap builds a color map from "#RRGGBB" hex strings.
//
// Parameters:
//   - palette: Label to hex color. May be empty.
//   - fallbackHex: Color used for any label not in palette.
//
// Returns an error naming the first (in label order) entry that is not a
// valid hex color.
func NewColorMap(palette map[string]string, fallbackHex string) (ColorMap, error) {
	fallback, err := parseHexColor(fallbackHex)
	if err != nil {
		return ColorMap{}, fmt.Errorf("invalid fallback color %q: %w", fallbackHex, err)
	}

	labels := make([]string, 0, len(palette))
	for label := range palette {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	colors := make(map[string]color.RGBA, len(palette))
	for _, label := range labels {
		c, err := parseHexColor(palette[label])
		if err != nil {
			return ColorMap{}, fmt.Errorf("invalid color %q for label %q: %w", palette[label], label, err)
		}
		colors[label] = c
	}

	return ColorMap{colors: colors, fallback: fallback}, nil
}

func mustColorMap(palette map[string]string, fallbackHex string) ColorMap {
	m, err := NewColorMap(palette, fallbackHex)
	if err != nil {
		panic(err)
	}
	return m
}

// Resolve returns the color for label, or the fallback if label is unmapped.
func (m ColorMap) Resolve(label string) color.RGBA {
	if c, ok := m.colors[label]; ok {
		return c
	}
	return m.fallback
}

// Fallback returns the color used for unmapped labels.
func (m ColorMap) Fallback() color.RGBA {
	return m.fallback
}

// Labels returns the mapped labels in sorted order.
func (m ColorMap) Labels() []string {
	labels := make([]string, 0, len(m.colors))
	for label := range m.colors {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// parseHexColor parses an opaque "#RRGGBB" (or "#RGB") color.
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) != 4 && len(hex) != 7 {
		return color.RGBA{}, fmt.Errorf("color: %q is not a hex-color", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
