// Package palette holds the fixed brush colors and sizes offered by the toolbar.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default brush settings.
const (
	DefaultSize             = 10
	DefaultEraserMultiplier = 2
	SizeMin                 = 5
	SizeMax                 = 30
	SizeStep                = 5
)

// Background is the color of an untouched canvas pixel. Painting with it erases.
var Background = color.RGBA{}

// Swatch is a named palette color.
type Swatch struct {
	Name  string
	Color color.RGBA
}

// Palette is the list of selectable colors and brush sizes.
type Palette struct {
	Colors           []Swatch
	Sizes            []int
	DefaultSize      int
	EraserMultiplier int
}

// Default returns the stock palette. Black and white are left out: black is the
// transparent canvas background and white washes out over the camera image.
func Default() Palette {
	return Palette{
		Colors: []Swatch{
			{Name: "Red", Color: color.RGBA{R: 255, A: 255}},
			{Name: "Green", Color: color.RGBA{G: 255, A: 255}},
			{Name: "Blue", Color: color.RGBA{B: 255, A: 255}},
			{Name: "Yellow", Color: color.RGBA{R: 255, G: 255, A: 255}},
			{Name: "Purple", Color: color.RGBA{R: 255, B: 255, A: 255}},
			{Name: "Cyan", Color: color.RGBA{G: 255, B: 255, A: 255}},
			{Name: "Orange", Color: color.RGBA{R: 255, G: 165, A: 255}},
			{Name: "Pink", Color: color.RGBA{R: 255, G: 192, B: 203, A: 255}},
		},
		Sizes:            DefaultSizes(),
		DefaultSize:      DefaultSize,
		EraserMultiplier: DefaultEraserMultiplier,
	}
}

// DefaultSizes returns the brush sizes from SizeMin to SizeMax in SizeStep increments.
func DefaultSizes() []int {
	sizes := make([]int, 0, (SizeMax-SizeMin)/SizeStep+1)
	for s := SizeMin; s <= SizeMax; s += SizeStep {
		sizes = append(sizes, s)
	}
	return sizes
}

// Color returns the color at index i.
func (p Palette) Color(i int) (Swatch, bool) {
	if i < 0 || i >= len(p.Colors) {
		return Swatch{}, false
	}
	return p.Colors[i], true
}

// Size returns the brush size at index i.
func (p Palette) Size(i int) (int, bool) {
	if i < 0 || i >= len(p.Sizes) {
		return 0, false
	}
	return p.Sizes[i], true
}

// SizeIndex returns the index of size in the size list, or -1.
func (p Palette) SizeIndex(size int) int {
	for i, s := range p.Sizes {
		if s == size {
			return i
		}
	}
	return -1
}

// ParseColors parses palette entries of the form "name=#rrggbb" or "#rrggbb".
// Unnamed entries are named after their hex value.
func ParseColors(specs []string) ([]Swatch, error) {
	swatches := make([]Swatch, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		name, hex := "", spec
		if i := strings.IndexByte(spec, '='); i >= 0 {
			name, hex = strings.TrimSpace(spec[:i]), strings.TrimSpace(spec[i+1:])
		}

		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("parse palette color %q: %w", spec, err)
		}
		if name == "" {
			name = c.Hex()
		}

		r, g, b := c.RGB255()
		rgba := color.RGBA{R: r, G: g, B: b, A: 255}
		if rgba == (color.RGBA{A: 255}) {
			return nil, fmt.Errorf("parse palette color %q: black is reserved for the background", spec)
		}

		swatches = append(swatches, Swatch{Name: name, Color: rgba})
	}

	if len(swatches) == 0 {
		return nil, fmt.Errorf("palette has no colors")
	}
	return swatches, nil
}
