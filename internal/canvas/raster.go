package canvas

import (
	"image"
	"image/color"
	imagedraw "image/draw"

	"github.com/fogleman/gg"
)

// RasterSurface is a pure Go Surface over an *image.RGBA. Shapes are
// rasterized into a scratch mask and then written with replace semantics,
// so painting with the background color erases.
type RasterSurface struct {
	img  *image.RGBA
	mask *gg.Context
}

// NewRasterSurface allocates a transparent buffer of the given size.
func NewRasterSurface(size image.Point) *RasterSurface {
	return &RasterSurface{
		img:  image.NewRGBA(image.Rect(0, 0, size.X, size.Y)),
		mask: gg.NewContext(size.X, size.Y),
	}
}

// Image returns the underlying buffer.
func (s *RasterSurface) Image() *image.RGBA {
	return s.img
}

func (s *RasterSurface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

func (s *RasterSurface) Line(a, b image.Point, c color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	dc := s.resetMask()
	dc.SetLineWidth(float64(thickness))
	dc.SetLineCapRound()
	dc.DrawLine(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
	dc.Stroke()
	s.apply(c)
}

func (s *RasterSurface) Dot(p image.Point, c color.RGBA, thickness int) {
	dc := s.resetMask()
	dc.DrawCircle(float64(p.X), float64(p.Y), float64(radius(thickness)))
	dc.Fill()
	s.apply(c)
}

func (s *RasterSurface) resetMask() *gg.Context {
	dc := s.mask
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	return dc
}

func (s *RasterSurface) apply(c color.RGBA) {
	imagedraw.DrawMask(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, s.mask.AsMask(), image.Point{}, imagedraw.Src)
}
