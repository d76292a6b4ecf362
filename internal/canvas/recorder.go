package canvas

import (
	"image"
	"image/color"
	"sync"
)

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpLine OpKind = iota
	OpDot
)

// Op is one recorded drawing call. B equals A for dots.
type Op struct {
	Kind      OpKind
	A, B      image.Point
	Color     color.RGBA
	Thickness int
}

// Recorder is a Surface that records drawing calls instead of rasterizing
// them. It is used to assert on engine output.
type Recorder struct {
	mu     sync.Mutex
	bounds image.Rectangle
	ops    []Op
}

// NewRecorder creates a recorder with the given size.
func NewRecorder(size image.Point) *Recorder {
	return &Recorder{bounds: image.Rect(0, 0, size.X, size.Y)}
}

func (r *Recorder) Bounds() image.Rectangle {
	return r.bounds
}

func (r *Recorder) Line(a, b image.Point, c color.RGBA, thickness int) {
	r.record(Op{Kind: OpLine, A: a, B: b, Color: c, Thickness: thickness})
}

func (r *Recorder) Dot(p image.Point, c color.RGBA, thickness int) {
	r.record(Op{Kind: OpDot, A: p, B: p, Color: c, Thickness: thickness})
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

// Ops returns every recorded call in order.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Lines returns the recorded line segments in order.
func (r *Recorder) Lines() []Op {
	return r.filter(OpLine)
}

// Dots returns the recorded dots in order.
func (r *Recorder) Dots() []Op {
	return r.filter(OpDot)
}

func (r *Recorder) filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops() {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}
