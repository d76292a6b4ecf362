package app

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ayusman/vcanvas/internal/canvas"
	"github.com/ayusman/vcanvas/internal/detector"
	"github.com/ayusman/vcanvas/internal/gesture"
	"github.com/ayusman/vcanvas/internal/menu"
)

// Result is the outcome of one frame.
type Result struct {
	// Signal is what the classifier saw, even while paused.
	Signal gesture.Signal
	State  canvas.State
	Tool   canvas.ToolState
	// Status is the latest user-facing message, such as the selected color.
	Status string
}

// Session is the per-frame state of a drawing run: classifier, engine and
// toolbar. It owns no camera or window, so it can be driven from literal
// landmark sequences.
type Session struct {
	classifier *gesture.Classifier
	engine     *canvas.Engine
	menu       *menu.Menu
	logger     *zap.SugaredLogger
	status     string
	paused     bool
	frames     int
}

// NewSession creates a session painting onto surface. The toolbar is laid
// out for the surface size.
func NewSession(cfg Config, surface canvas.Surface, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	m := menu.New(surface.Bounds().Size(), cfg.Palette)
	engine := canvas.NewEngine(surface, cfg.Palette, logger.Named("canvas"))

	return &Session{
		classifier: gesture.NewClassifier(cfg.Gesture, m),
		engine:     engine,
		menu:       m,
		logger:     logger,
	}
}

// Step classifies the hands seen in one frame and applies the signal.
func (s *Session) Step(hands []detector.HandLandmarks, frameSize image.Point) Result {
	s.frames++
	sig := s.classifier.Classify(hands, frameSize)

	applied := sig
	if s.paused {
		applied = gesture.Idle()
	}
	state := s.engine.Apply(applied)
	tool := s.engine.Tool()

	switch {
	case applied.Kind == gesture.KindSelectColor && tool.ColorIndex == applied.Index:
		s.status = "Selected Color: " + s.engine.ColorName()
	case applied.Kind == gesture.KindSelectThickness && tool.ThicknessIndex == applied.Index:
		s.status = fmt.Sprintf("Pen Thickness: %d", tool.Thickness)
	case state == canvas.StateErasing:
		s.status = "Eraser Selected"
	}

	return Result{
		Signal: sig,
		State:  state,
		Tool:   tool,
		Status: s.status,
	}
}

// SetPaused stops the engine from painting. Classification continues.
func (s *Session) SetPaused(paused bool) {
	s.paused = paused
}

// Paused reports whether painting is stopped.
func (s *Session) Paused() bool {
	return s.paused
}

func (s *Session) Engine() *canvas.Engine {
	return s.engine
}

func (s *Session) Menu() *menu.Menu {
	return s.menu
}

// Frames returns how many frames have been stepped.
func (s *Session) Frames() int {
	return s.frames
}
