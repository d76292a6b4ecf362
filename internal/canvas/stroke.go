package canvas

import (
	"image"
	"image/color"

	"github.com/google/uuid"
)

// MaxStrokes bounds the journal. The oldest strokes are dropped first.
const MaxStrokes = 512

// Stroke is a connected run of points drawn without interruption.
type Stroke struct {
	ID        uuid.UUID
	Color     color.RGBA
	Thickness int
	Erase     bool
	Points    []image.Point
}

// journal records strokes as the engine paints them. It is not persisted.
type journal struct {
	strokes []Stroke
	open    bool
	total   int
}

func (j *journal) begin(c color.RGBA, thickness int, erase bool) {
	if len(j.strokes) == MaxStrokes {
		j.strokes = append(j.strokes[:0], j.strokes[1:]...)
	}
	j.strokes = append(j.strokes, Stroke{
		ID:        uuid.New(),
		Color:     c,
		Thickness: thickness,
		Erase:     erase,
	})
	j.open = true
	j.total++
}

func (j *journal) add(p image.Point) {
	if !j.open {
		return
	}
	last := &j.strokes[len(j.strokes)-1]
	last.Points = append(last.Points, p)
}

func (j *journal) end() {
	j.open = false
}

func (j *journal) list() []Stroke {
	out := make([]Stroke, len(j.strokes))
	for i, s := range j.strokes {
		s.Points = append([]image.Point(nil), s.Points...)
		out[i] = s
	}
	return out
}
