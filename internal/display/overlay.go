package display

import (
	"image"
	"image/color"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/ayusman/vcanvas/internal/canvas"
	"github.com/ayusman/vcanvas/internal/menu"
	"github.com/ayusman/vcanvas/internal/palette"
)

// Text and marker styling.
const (
	Font          = gocv.FontHersheySimplex
	TextScale     = 0.6
	TextThickness = 1
	StatusMargin  = 20
	OutlineWidth  = 4
	// ButtonAlpha is the opacity of the color buttons over the frame.
	ButtonAlpha = 0.8
	// TipRadius is the radius of the fingertip marker.
	TipRadius = 5
)

var (
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	LightGray = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	MidGray   = color.RGBA{R: 169, G: 169, B: 169, A: 255}
	DarkGray  = color.RGBA{R: 70, G: 70, B: 70, A: 255}
)

// DrawMenu renders the toolbar onto frame. The active color is ringed and
// the active size is outlined in white.
func DrawMenu(frame *gocv.Mat, m *menu.Menu, p palette.Palette, tool canvas.ToolState) {
	if m == nil {
		return
	}

	overlay := frame.Clone()
	defer overlay.Close()

	var sizes []menu.Button
	for _, b := range m.Buttons() {
		if b.Kind != menu.KindColor {
			sizes = append(sizes, b)
			continue
		}
		if sw, ok := p.Color(b.Index); ok {
			gocv.Circle(&overlay, b.Center, b.Radius, sw.Color, -1)
		}
	}
	gocv.AddWeighted(overlay, ButtonAlpha, *frame, 1-ButtonAlpha, 0, frame)

	for _, b := range m.Buttons() {
		if b.Kind == menu.KindColor && b.Index == tool.ColorIndex {
			gocv.Circle(frame, b.Center, b.Radius+OutlineWidth, White, 2)
		}
	}

	for _, b := range sizes {
		size, ok := p.Size(b.Index)
		if !ok {
			continue
		}
		outline := LightGray
		if b.Index == tool.ThicknessIndex {
			outline = White
		}
		gocv.Circle(frame, b.Center, b.Radius+OutlineWidth, outline, -1)
		gocv.Circle(frame, b.Center, b.Radius, MidGray, -1)
		drawCentered(frame, strconv.Itoa(size), b.Center)
	}
}

// DrawFingertip marks the index fingertip with a dark ring. The ring is
// filled unless the user is drawing, so the stroke under the tip stays visible.
func DrawFingertip(frame *gocv.Mat, tip image.Point, drawing bool) {
	gocv.Circle(frame, tip, TipRadius, DarkGray, 2)
	if !drawing {
		gocv.Circle(frame, tip, TipRadius, LightGray, -1)
	}
}

// DrawStatus writes text in the bottom-right corner of frame.
func DrawStatus(frame *gocv.Mat, text string) {
	if text == "" {
		return
	}
	size := gocv.GetTextSize(text, Font, TextScale, TextThickness)
	org := image.Pt(frame.Cols()-size.X-StatusMargin, frame.Rows()-StatusMargin)
	gocv.PutTextWithParams(frame, text, org, Font, TextScale, White, TextThickness, gocv.LineAA, false)
}

func drawCentered(frame *gocv.Mat, text string, center image.Point) {
	size := gocv.GetTextSize(text, Font, TextScale, TextThickness)
	org := image.Pt(center.X-size.X/2, center.Y+size.Y/2)
	gocv.PutTextWithParams(frame, text, org, Font, TextScale, White, TextThickness, gocv.LineAA, false)
}
