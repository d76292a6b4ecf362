// Package menu lays out the on-screen toolbar and resolves fingertip positions to buttons.
package menu

import (
	"image"

	"github.com/ayusman/vcanvas/internal/palette"
)

// Layout constants, in pixels.
const (
	ButtonRadius  = 25
	ButtonSpacing = 75
	Margin        = 10
)

// Kind identifies what a button selects.
type Kind int

const (
	// KindColor buttons select a palette color.
	KindColor Kind = iota
	// KindSize buttons select a brush size.
	KindSize
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindSize:
		return "size"
	default:
		return "unknown"
	}
}

// Button is a circular toolbar button.
type Button struct {
	Kind   Kind
	Index  int
	Center image.Point
	Radius int
}

// Contains reports whether p lies strictly inside the button circle.
func (b Button) Contains(p image.Point) bool {
	dx, dy := p.X-b.Center.X, p.Y-b.Center.Y
	return dx*dx+dy*dy < b.Radius*b.Radius
}

// Menu is the toolbar for one frame size: a row of color buttons along the top
// edge and a column of size buttons down the right edge.
type Menu struct {
	size    image.Point
	buttons []Button
}

// New lays out a menu for frames of the given size.
func New(frameSize image.Point, p palette.Palette) *Menu {
	m := &Menu{size: frameSize}

	top := Margin + ButtonRadius
	right := frameSize.X - Margin - ButtonRadius

	// Color row stops short of the size column.
	rowSpan := right - 2*ButtonRadius - (Margin + ButtonRadius)
	colorStep := fit(ButtonSpacing, rowSpan, len(p.Colors)-1)
	for i := range p.Colors {
		m.buttons = append(m.buttons, Button{
			Kind:   KindColor,
			Index:  i,
			Center: image.Pt(Margin+ButtonRadius+i*colorStep, top),
			Radius: ButtonRadius,
		})
	}

	colSpan := frameSize.Y - Margin - ButtonRadius - top
	sizeStep := fit(ButtonSpacing, colSpan, len(p.Sizes))
	for i := range p.Sizes {
		m.buttons = append(m.buttons, Button{
			Kind:   KindSize,
			Index:  i,
			Center: image.Pt(right, top+(i+1)*sizeStep),
			Radius: ButtonRadius,
		})
	}

	return m
}

// fit returns the spacing for n gaps within span, capped at want.
func fit(want, span, n int) int {
	if n <= 0 || span <= 0 {
		return want
	}
	if step := span / n; step < want {
		return step
	}
	return want
}

// Size returns the frame size the menu was laid out for.
func (m *Menu) Size() image.Point {
	return m.size
}

// Buttons returns all buttons, colors first.
func (m *Menu) Buttons() []Button {
	out := make([]Button, len(m.buttons))
	copy(out, m.buttons)
	return out
}

// HitTest returns the first button containing p.
func (m *Menu) HitTest(p image.Point) (Button, bool) {
	if m == nil {
		return Button{}, false
	}
	for _, b := range m.buttons {
		if b.Contains(p) {
			return b, true
		}
	}
	return Button{}, false
}
