package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/multierr"

	"github.com/ayusman/vcanvas/internal/capture"
	"github.com/ayusman/vcanvas/internal/detector"
	"github.com/ayusman/vcanvas/internal/display"
	"github.com/ayusman/vcanvas/internal/gesture"
	"github.com/ayusman/vcanvas/internal/palette"
	"github.com/ayusman/vcanvas/internal/store"
)

// Frame pacing constants.
const (
	// ActiveFPS is the capture rate while the scene moves.
	ActiveFPS = capture.DefaultFPS
	// IdleFPS is the capture rate after IdleTimeout without motion.
	IdleFPS = 5
	// IdleTimeout is how long the scene must be still before dropping to IdleFPS.
	IdleTimeout = 2 * time.Second
	// MaxReadFailures is the number of consecutive failed reads treated as a lost camera.
	MaxReadFailures = 100
)

// Config holds configuration options for the application.
type Config struct {
	Camera   capture.Config
	Detector detector.Config
	Gesture  gesture.Config
	Palette  palette.Palette

	// Mirror flips every frame horizontally before classification.
	Mirror bool
	// ShowBoard composites the canvas from the first frame.
	ShowBoard bool

	MotionThreshold float64
	ActiveFPS       int
	IdleFPS         int
	IdleTimeout     time.Duration

	WindowTitle string
	// ListenAddr enables the web monitor when non-empty.
	ListenAddr string
	// Tray enables the system tray menu.
	Tray     bool
	LogLevel string
}

// DefaultConfig returns the configuration used when no settings are stored.
func DefaultConfig() Config {
	return Config{
		Camera:          capture.DefaultConfig(),
		Detector:        detector.DefaultConfig(),
		Gesture:         gesture.DefaultConfig(),
		Palette:         palette.Default(),
		Mirror:          true,
		ShowBoard:       true,
		MotionThreshold: capture.DefaultMotionThreshold,
		ActiveFPS:       ActiveFPS,
		IdleFPS:         IdleFPS,
		IdleTimeout:     IdleTimeout,
		WindowTitle:     display.DefaultTitle,
		LogLevel:        "info",
	}
}

// ApplySettings overrides cfg with values from the settings store. Unknown
// keys are ignored. Invalid values leave the field unchanged and are
// reported together in the returned error.
func ApplySettings(cfg Config, settings map[string]string) (Config, error) {
	var errs error
	fail := func(key string, err error) {
		errs = multierr.Append(errs, fmt.Errorf("setting %s: %w", key, err))
	}

	for key, raw := range settings {
		raw = strings.TrimSpace(raw)

		switch key {
		case store.KeyCameraID:
			v, err := cast.ToIntE(raw)
			if err != nil || v < 0 {
				fail(key, fmt.Errorf("invalid camera id %q", raw))
				continue
			}
			cfg.Camera.DeviceID = v

		case store.KeyMirror:
			v, err := cast.ToBoolE(raw)
			if err != nil {
				fail(key, err)
				continue
			}
			cfg.Mirror = v

		case store.KeyMinConfidence:
			v, err := cast.ToFloat64E(raw)
			if err != nil || v < 0 || v > 1 {
				fail(key, fmt.Errorf("confidence %q not in [0,1]", raw))
				continue
			}
			cfg.Gesture.MinConfidence = v
			cfg.Detector.MinConfidence = v

		case store.KeyThumbSpread:
			v, err := cast.ToFloat64E(raw)
			if err != nil || v <= 0 {
				fail(key, fmt.Errorf("invalid thumb spread %q", raw))
				continue
			}
			cfg.Gesture.ThumbSpread = v

		case store.KeyPalette:
			colors, err := palette.ParseColors(splitList(raw))
			if err != nil {
				fail(key, err)
				continue
			}
			cfg.Palette.Colors = colors

		case store.KeyBrushSizes:
			sizes, err := parseSizes(raw)
			if err != nil {
				fail(key, err)
				continue
			}
			cfg.Palette.Sizes = sizes

		case store.KeyDefaultBrush:
			v, err := cast.ToIntE(raw)
			if err != nil || v <= 0 {
				fail(key, fmt.Errorf("invalid brush size %q", raw))
				continue
			}
			cfg.Palette.DefaultSize = v

		case store.KeyEraserMultiplier:
			v, err := cast.ToIntE(raw)
			if err != nil || v <= 0 {
				fail(key, fmt.Errorf("invalid eraser multiplier %q", raw))
				continue
			}
			cfg.Palette.EraserMultiplier = v

		case store.KeyListenAddr:
			cfg.ListenAddr = raw

		case store.KeyTray:
			v, err := cast.ToBoolE(raw)
			if err != nil {
				fail(key, err)
				continue
			}
			cfg.Tray = v

		case store.KeyLogLevel:
			cfg.LogLevel = raw
		}
	}

	return cfg, errs
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSizes(raw string) ([]int, error) {
	parts := splitList(raw)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no brush sizes")
	}
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := cast.ToIntE(p)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid brush size %q", p)
		}
		sizes = append(sizes, v)
	}
	return sizes, nil
}
