package canvas

import (
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/ayusman/vcanvas/internal/gesture"
	"github.com/ayusman/vcanvas/internal/palette"
)

// State is the engine mode derived from the latest signal.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateErasing
	StateSelecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateErasing:
		return "erasing"
	case StateSelecting:
		return "selecting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Transition returns the state a signal moves the engine into. It depends on
// the signal alone.
func Transition(sig gesture.Signal) State {
	switch sig.Kind {
	case gesture.KindDraw:
		if sig.HasTip {
			return StateDrawing
		}
	case gesture.KindErase:
		if sig.HasTip {
			return StateErasing
		}
	case gesture.KindSelectColor, gesture.KindSelectThickness, gesture.KindHover:
		return StateSelecting
	}
	return StateIdle
}

// ToolState is the active brush and the pen position carried between frames.
type ToolState struct {
	Color          color.RGBA
	ColorIndex     int
	Thickness      int
	ThicknessIndex int
	// LastPen is set only while a stroke is in progress.
	LastPen *image.Point
}

// Engine applies gesture signals to a Surface. It is not safe for concurrent
// use; the frame loop owns it.
type Engine struct {
	surface Surface
	palette palette.Palette
	tool    ToolState
	state   State
	strokes journal
	logger  *zap.SugaredLogger
}

// NewEngine creates an engine painting onto surface with the first palette
// color and the palette's default size.
func NewEngine(surface Surface, p palette.Palette, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	tool := ToolState{
		Color:          color.RGBA{R: 255, A: 255},
		Thickness:      p.DefaultSize,
		ThicknessIndex: p.SizeIndex(p.DefaultSize),
	}
	if sw, ok := p.Color(0); ok {
		tool.Color = sw.Color
	}
	if tool.Thickness <= 0 {
		tool.Thickness = palette.DefaultSize
	}
	if p.EraserMultiplier <= 0 {
		p.EraserMultiplier = palette.DefaultEraserMultiplier
	}

	return &Engine{
		surface: surface,
		palette: p,
		tool:    tool,
		logger:  logger,
	}
}

// Apply updates tool state and the surface for one frame's signal and
// returns the resulting state.
func (e *Engine) Apply(sig gesture.Signal) State {
	next := Transition(sig)
	if next != e.state {
		e.logger.Debugw("mode changed", "from", e.state, "to", next)
	}

	// A stroke only continues while the mode stays the same.
	if next != e.state || (next != StateDrawing && next != StateErasing) {
		e.tool.LastPen = nil
		e.strokes.end()
	}
	e.state = next

	switch next {
	case StateDrawing:
		e.paint(sig.Tip, e.tool.Color, e.tool.Thickness, false)
	case StateErasing:
		e.paint(sig.Tip, palette.Background, e.tool.Thickness*e.palette.EraserMultiplier, true)
	case StateSelecting:
		e.selectTool(sig)
	}

	return next
}

func (e *Engine) paint(tip image.Point, c color.RGBA, thickness int, erase bool) {
	p := Clamp(tip, e.surface.Bounds())

	if e.tool.LastPen != nil {
		e.surface.Line(*e.tool.LastPen, p, c, thickness)
	} else {
		e.surface.Dot(p, c, thickness)
		e.strokes.begin(c, thickness, erase)
	}
	e.strokes.add(p)
	e.tool.LastPen = &p
}

func (e *Engine) selectTool(sig gesture.Signal) {
	switch sig.Kind {
	case gesture.KindSelectColor:
		sw, ok := e.palette.Color(sig.Index)
		if !ok {
			e.logger.Debugw("ignoring color selection", "index", sig.Index)
			return
		}
		if sig.Index != e.tool.ColorIndex {
			e.logger.Infow("color selected", "color", sw.Name)
		}
		e.tool.Color = sw.Color
		e.tool.ColorIndex = sig.Index
	case gesture.KindSelectThickness:
		size, ok := e.palette.Size(sig.Index)
		if !ok {
			e.logger.Debugw("ignoring size selection", "index", sig.Index)
			return
		}
		if sig.Index != e.tool.ThicknessIndex {
			e.logger.Infow("brush size selected", "size", size)
		}
		e.tool.Thickness = size
		e.tool.ThicknessIndex = sig.Index
	}
}

// State returns the current mode.
func (e *Engine) State() State {
	return e.state
}

// Tool returns a copy of the tool state.
func (e *Engine) Tool() ToolState {
	t := e.tool
	if t.LastPen != nil {
		p := *t.LastPen
		t.LastPen = &p
	}
	return t
}

// ColorName returns the palette name of the active color.
func (e *Engine) ColorName() string {
	if sw, ok := e.palette.Color(e.tool.ColorIndex); ok {
		return sw.Name
	}
	return ""
}

// Palette returns the palette the engine selects from.
func (e *Engine) Palette() palette.Palette {
	return e.palette
}

// Surface returns the buffer the engine paints on.
func (e *Engine) Surface() Surface {
	return e.surface
}

// StrokeCount returns how many strokes have been started, including those
// dropped from the journal.
func (e *Engine) StrokeCount() int {
	return e.strokes.total
}

// Strokes returns a copy of the stroke journal, oldest first.
func (e *Engine) Strokes() []Stroke {
	return e.strokes.list()
}
