package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"github.com/ayusman/vcanvas/internal/canvas"
	"github.com/ayusman/vcanvas/internal/capture"
	"github.com/ayusman/vcanvas/internal/display"
)

// readRetryDelay is the pause after a failed frame read.
const readRetryDelay = 10 * time.Millisecond

// Run opens the camera and processes frames until the user quits, ctx is
// cancelled, a Quit command arrives or a finite frame source runs out.
// It returns nil on a normal stop. A camera that cannot be opened or read
// is fatal.
//
// Per frame:
//  1. Read and mirror the frame
//  2. Adjust the capture rate from motion
//  3. Detect hands and step the session
//  4. Composite the canvas and toolbar, then show on every sink
func (a *App) Run(ctx context.Context) (err error) {
	if err := a.camera.Open(); err != nil {
		return multierr.Append(fmt.Errorf("open camera: %w", err), a.close())
	}
	defer func() {
		err = multierr.Append(err, a.close())
	}()

	a.camera.SetFPS(a.governor.FPS())
	a.logger.Infow("frame loop started", "fps", a.governor.FPS(), "mirror", a.config.Mirror)

	failures := 0
	for {
		select {
		case <-ctx.Done():
			a.logger.Infow("frame loop stopped", "reason", ctx.Err(), "frames", a.frames)
			return nil
		default:
		}

		if a.drainCommands() {
			a.logger.Infow("frame loop stopped", "reason", "quit command", "frames", a.frames)
			return nil
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			switch {
			case errors.Is(err, capture.ErrNoMoreFrames):
				a.logger.Infow("frame source exhausted", "frames", a.frames)
				return nil
			case errors.Is(err, capture.ErrCameraNotOpen):
				return fmt.Errorf("read frame: %w", err)
			}

			failures++
			if failures >= MaxReadFailures {
				return fmt.Errorf("read frame: %d consecutive failures: %w", failures, err)
			}
			if failures == 1 {
				a.logger.Warnw("frame read failed", "error", err)
			}
			select {
			case <-ctx.Done():
			case <-time.After(readRetryDelay):
			}
			continue
		}
		failures = 0

		quit := a.processFrame(frame)
		frame.Close()
		if quit {
			a.logger.Infow("frame loop stopped", "reason", "display closed", "frames", a.frames)
			return nil
		}
	}
}

// processFrame runs one frame through the pipeline. It reports whether a
// sink asked to quit.
func (a *App) processFrame(frame *gocv.Mat) bool {
	if a.config.Mirror {
		display.Mirror(frame)
	}
	size := image.Pt(frame.Cols(), frame.Rows())
	a.ensureSession(size)

	moving, _ := a.motion.Detect(frame)
	if fps, changed := a.governor.Observe(moving, time.Now()); changed {
		a.camera.SetFPS(fps)
		a.logger.Debugw("capture rate changed", "fps", fps)
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		if !a.detectFailing {
			a.logger.Warnw("hand detection failed", "error", err)
		}
		a.detectFailing = true
		hands = nil
	} else {
		a.detectFailing = false
	}

	res := a.session.Step(hands, size)
	a.frames++

	a.render(frame, res)
	a.publish(res)

	if err := a.sink.Show(*frame); err != nil {
		if errors.Is(err, display.ErrQuit) {
			return true
		}
		a.logger.Warnw("display failed", "error", err)
	}
	return false
}

func (a *App) ensureSession(size image.Point) {
	if a.session != nil {
		return
	}
	a.surface = canvas.NewMatSurface(size)
	a.session = NewSession(a.config, a.surface, a.logger)
	a.session.SetPaused(!a.showBoard)
	a.logger.Infow("canvas created", "width", size.X, "height", size.Y)
}

func (a *App) render(frame *gocv.Mat, res Result) {
	if a.showBoard {
		if err := display.Compose(frame, a.surface.Mat()); err != nil && !a.composeFailed {
			a.logger.Warnw("compose failed", "error", err)
			a.composeFailed = true
		}
		display.DrawMenu(frame, a.session.Menu(), a.session.Engine().Palette(), res.Tool)
		display.DrawStatus(frame, res.Status)
	}

	if res.Signal.HasTip {
		display.DrawFingertip(frame, res.Signal.Tip, res.State == canvas.StateDrawing)
	}
}

func (a *App) publish(res Result) {
	if len(a.publishers) == 0 {
		return
	}

	ev := Event{
		Frame:     a.frames,
		Time:      time.Now(),
		Gesture:   res.Signal.Kind.String(),
		State:     res.State.String(),
		Color:     a.session.Engine().ColorName(),
		Thickness: res.Tool.Thickness,
		Board:     a.showBoard,
		Status:    res.Status,
	}
	if res.Signal.HasTip {
		ev.Tip = &Point{X: res.Signal.Tip.X, Y: res.Signal.Tip.Y}
	}

	for _, p := range a.publishers {
		p.Publish(ev)
	}
}

// drainCommands applies queued commands and reports whether to quit.
func (a *App) drainCommands() bool {
	for {
		select {
		case cmd := <-a.commands:
			switch cmd {
			case CommandToggleBoard:
				a.setBoard(!a.showBoard)
			case CommandQuit:
				return true
			}
		default:
			return false
		}
	}
}

func (a *App) setBoard(show bool) {
	a.showBoard = show
	if a.session != nil {
		a.session.SetPaused(!show)
	}
	a.logger.Infow("board toggled", "shown", show)
}
