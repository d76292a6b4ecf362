// Package canvas holds the persistent drawing buffer and the tool state that
// turns gesture signals into strokes.
package canvas

import (
	"image"
	"image/color"
)

// Surface is a drawable buffer with fixed bounds. Callers clamp points into
// Bounds before drawing.
type Surface interface {
	Bounds() image.Rectangle
	// Line draws a segment from a to b with round ends.
	Line(a, b image.Point, c color.RGBA, thickness int)
	// Dot draws a filled disc of the given diameter centered on p.
	Dot(p image.Point, c color.RGBA, thickness int)
}

// Clamp returns p moved to the nearest pixel inside r.
func Clamp(p image.Point, r image.Rectangle) image.Point {
	if r.Empty() {
		return r.Min
	}
	if p.X < r.Min.X {
		p.X = r.Min.X
	} else if p.X >= r.Max.X {
		p.X = r.Max.X - 1
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	} else if p.Y >= r.Max.Y {
		p.Y = r.Max.Y - 1
	}
	return p
}

func radius(thickness int) int {
	if r := thickness / 2; r > 0 {
		return r
	}
	return 1
}
