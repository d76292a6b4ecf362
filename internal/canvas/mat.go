package canvas

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// MatSurface is a Surface backed by a BGR gocv.Mat, composited directly over
// camera frames.
type MatSurface struct {
	mat gocv.Mat
}

// NewMatSurface allocates a black buffer of the given size.
func NewMatSurface(size image.Point) *MatSurface {
	return &MatSurface{
		mat: gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), size.Y, size.X, gocv.MatTypeCV8UC3),
	}
}

// Mat returns the underlying buffer. The surface keeps ownership.
func (s *MatSurface) Mat() gocv.Mat {
	return s.mat
}

func (s *MatSurface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.mat.Cols(), s.mat.Rows())
}

func (s *MatSurface) Line(a, b image.Point, c color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	gocv.Line(&s.mat, a, b, c, thickness)
}

func (s *MatSurface) Dot(p image.Point, c color.RGBA, thickness int) {
	gocv.Circle(&s.mat, p, radius(thickness), c, -1)
}

// Close releases the buffer.
func (s *MatSurface) Close() error {
	return s.mat.Close()
}
