// Package app runs the webcam drawing loop: capture, landmark detection,
// gesture classification, canvas updates and display.
package app

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ayusman/vcanvas/internal/canvas"
	"github.com/ayusman/vcanvas/internal/capture"
	"github.com/ayusman/vcanvas/internal/detector"
	"github.com/ayusman/vcanvas/internal/display"
)

// CommandBuffer is the capacity of the command channel.
const CommandBuffer = 16

// Deps are the collaborators of an App. Nil fields are built from Config.
type Deps struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Sinks      []display.Sink
	Publishers []Publisher
	Logger     *zap.SugaredLogger
}

// Stats summarizes a finished or running loop.
type Stats struct {
	Frames  int
	Strokes int
}

// App owns the frame loop. Every field below commands is touched only by
// the goroutine running Run.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	sink       display.Sink
	publishers []Publisher
	logger     *zap.SugaredLogger
	commands   chan Command

	motion        *capture.MotionDetector
	governor      *capture.Governor
	session       *Session
	surface       *canvas.MatSurface
	showBoard     bool
	frames        int
	detectFailing bool
	composeFailed bool
}

// New creates an App. Without an injected detector it tries the MediaPipe
// service and falls back to a mock that never sees a hand.
func New(config Config, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	a := &App{
		config:     config,
		camera:     deps.Camera,
		detector:   deps.Detector,
		publishers: deps.Publishers,
		logger:     logger,
		commands:   make(chan Command, CommandBuffer),
		motion:     capture.NewMotionDetector(config.MotionThreshold),
		governor:   capture.NewGovernor(config.ActiveFPS, config.IdleFPS, config.IdleTimeout),
		showBoard:  config.ShowBoard,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(config.Camera)
	}

	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(config.Detector, logger.Named("detector")); err == nil {
			a.detector = mp
			logger.Info("using MediaPipe hand detection")
		} else {
			logger.Warnw("MediaPipe not available, using mock detector", "error", err)
			a.detector = detector.NewMockDetector()
		}
	}

	sinks := deps.Sinks
	if len(sinks) == 0 {
		sinks = []display.Sink{display.NewWindow(config.WindowTitle)}
	}
	a.sink = display.Multi(sinks...)

	return a
}

// Send delivers a command to the loop without blocking. It reports false
// when the command buffer is full.
func (a *App) Send(cmd Command) bool {
	select {
	case a.commands <- cmd:
		return true
	default:
		a.logger.Warnw("command dropped", "command", cmd)
		return false
	}
}

// Session returns the current session, or nil before the first frame.
// It must only be used from the loop goroutine or after Run returns.
func (a *App) Session() *Session {
	return a.session
}

// Stats returns frame and stroke counts. Call it after Run returns.
func (a *App) Stats() Stats {
	s := Stats{Frames: a.frames}
	if a.session != nil {
		s.Strokes = a.session.Engine().StrokeCount()
	}
	return s
}

// close releases every resource the loop owns.
func (a *App) close() error {
	err := multierr.Combine(
		a.camera.Close(),
		a.detector.Close(),
		a.sink.Close(),
		a.motion.Close(),
	)
	if a.surface != nil {
		err = multierr.Append(err, a.surface.Close())
	}
	return err
}
