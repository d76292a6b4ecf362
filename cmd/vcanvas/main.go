// Command vcanvas draws on the webcam image with hand gestures: point to
// draw, open the hand to erase and raise two fingers over the toolbar to pick
// a color or brush size. Press ESC to quit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"

	"github.com/ayusman/vcanvas/internal/app"
	"github.com/ayusman/vcanvas/internal/display"
	"github.com/ayusman/vcanvas/internal/server"
	"github.com/ayusman/vcanvas/internal/store"
	"github.com/ayusman/vcanvas/internal/tray"
)

func main() {
	os.Exit(run())
}

func run() int {
	logCfg := newLoggerConfig()
	base, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		return 1
	}
	defer base.Sync()
	logger := base.Sugar().Named("vcanvas")

	dbPath, err := store.DefaultPath()
	if err != nil {
		logger.Errorw("resolve settings path", "error", err)
		return 1
	}
	st, err := store.New(dbPath)
	if err != nil {
		logger.Errorw("open settings store", "path", dbPath, "error", err)
		return 1
	}
	defer st.Close()

	cfg := app.DefaultConfig()
	settings, err := st.Settings().All()
	if err != nil {
		logger.Warnw("reading settings failed, using defaults", "error", err)
	} else if cfg, err = app.ApplySettings(cfg, settings); err != nil {
		logger.Warnw("ignoring invalid settings", "error", err)
	}
	if err := setLevel(logCfg, cfg.LogLevel); err != nil {
		logger.Warnw("ignoring log level", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := app.Deps{
		Sinks:  []display.Sink{display.NewWindow(cfg.WindowTitle)},
		Logger: logger,
	}

	if cfg.ListenAddr != "" {
		stream := server.NewStreamSink()
		hub := server.NewEventHub(logger.Named("events"))
		deps.Sinks = append(deps.Sinks, stream)
		deps.Publishers = append(deps.Publishers, hub)

		srv := server.New(server.Config{Stream: stream, Events: hub, Logger: logger.Named("server")})
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
				logger.Errorw("web monitor stopped", "error", err)
			}
		}()
	}

	var tr *tray.Tray
	if cfg.Tray {
		tr = tray.New(cfg.ShowBoard)
		deps.Publishers = append(deps.Publishers, tr)
	}

	a := app.New(cfg, deps)

	if tr != nil {
		tr.OnToggle(func() { a.Send(app.CommandToggleBoard) })
		tr.OnQuit(func() { a.Send(app.CommandQuit) })
		// The frame loop keeps the main thread for the HighGUI window.
		go func() {
			runtime.LockOSThread()
			tr.Run()
		}()
		defer tr.Quit()
	}

	sessionID := uuid.NewString()
	if _, err := st.Sessions().Start(sessionID); err != nil {
		logger.Warnw("recording session failed", "error", err)
	}
	logger.Infow("virtual canvas started", "session", sessionID, "camera", cfg.Camera.DeviceID)

	runErr := a.Run(ctx)

	stats := a.Stats()
	if err := st.Sessions().Finish(sessionID, stats.Frames, stats.Strokes); err != nil {
		logger.Warnw("finishing session record failed", "error", err)
	}

	if runErr != nil {
		logger.Errorw("virtual canvas failed", "error", runErr)
		return 1
	}
	logger.Infow("virtual canvas stopped", "frames", stats.Frames, "strokes", stats.Strokes)
	return 0
}
