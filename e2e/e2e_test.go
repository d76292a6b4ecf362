package e2e

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"github.com/ayusman/vcanvas/internal/app"
	"github.com/ayusman/vcanvas/internal/canvas"
	"github.com/ayusman/vcanvas/internal/capture"
	"github.com/ayusman/vcanvas/internal/detector"
	"github.com/ayusman/vcanvas/internal/display"
	"github.com/ayusman/vcanvas/internal/palette"
	"github.com/ayusman/vcanvas/internal/server"
	"github.com/ayusman/vcanvas/internal/store"
	"github.com/ayusman/vcanvas/testdata"
)

var frameSize = image.Pt(640, 480)

// configFromStore stores settings the way a user would and reads them back
// into an app config.
func configFromStore(t *testing.T, s *store.Store) app.Config {
	t.Helper()

	settings := map[string]string{
		store.KeyDefaultBrush: "15",
		store.KeyMirror:       "false",
	}
	for k, v := range settings {
		if err := s.Settings().Set(k, v); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}

	all, err := s.Settings().All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	cfg, err := app.ApplySettings(app.DefaultConfig(), all)
	if err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}
	return cfg
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func loadRecording(t *testing.T) [][]detector.HandLandmarks {
	t.Helper()
	frames, err := testdata.LoadRecording(testdata.DrawSelectErase)
	if err != nil {
		t.Fatalf("LoadRecording() error = %v", err)
	}
	return frames
}

func TestE2E_RecordedSessionOnRaster(t *testing.T) {
	cfg := configFromStore(t, openStore(t))
	frames := loadRecording(t)

	surface := canvas.NewRasterSurface(frameSize)
	session := app.NewSession(cfg, surface, zaptest.NewLogger(t).Sugar())

	var states []canvas.State
	var last app.Result
	for _, hands := range frames {
		last = session.Step(hands, frameSize)
		states = append(states, last.State)
	}

	want := []canvas.State{
		canvas.StateIdle,
		canvas.StateDrawing, canvas.StateDrawing, canvas.StateDrawing, canvas.StateDrawing, canvas.StateDrawing,
		canvas.StateIdle,
		canvas.StateSelecting,
		canvas.StateDrawing, canvas.StateDrawing, canvas.StateDrawing,
		canvas.StateErasing, canvas.StateErasing,
		canvas.StateIdle,
		canvas.StateIdle,
	}
	if len(states) != len(want) {
		t.Fatalf("got %d states, want %d", len(states), len(want))
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("frame %d: state = %s, want %s", i, states[i], want[i])
		}
	}

	img := surface.Image()
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}

	t.Run("first stroke is red", func(t *testing.T) {
		if got := img.RGBAAt(200, 240); got != red {
			t.Errorf("stroke start = %v, want %v", got, red)
		}
	})

	t.Run("stroke after selection is green", func(t *testing.T) {
		if got := img.RGBAAt(310, 300); got != green {
			t.Errorf("second stroke = %v, want %v", got, green)
		}
	})

	t.Run("eraser cleared the end of the first stroke", func(t *testing.T) {
		if got := img.RGBAAt(240, 260); got != palette.Background {
			t.Errorf("erased pixel = %v, want background", got)
		}
	})

	t.Run("low confidence hand left no mark", func(t *testing.T) {
		if got := img.RGBAAt(400, 400); got != palette.Background {
			t.Errorf("pixel = %v, want background", got)
		}
	})

	if got := session.Engine().StrokeCount(); got != 3 {
		t.Errorf("StrokeCount() = %d, want 3", got)
	}
	if last.Tool.Thickness != 15 || last.Tool.Color != green {
		t.Errorf("final tool = %+v, want green at 15", last.Tool)
	}
	if last.Status != "Eraser Selected" {
		t.Errorf("Status = %q", last.Status)
	}
}

func TestE2E_AppWithWebMonitor(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	st := openStore(t)
	cfg := configFromStore(t, st)
	frames := loadRecording(t)
	logger := zaptest.NewLogger(t).Sugar()

	mats := capture.SolidFrames(len(frames), frameSize, color.RGBA{R: 30, G: 30, B: 30, A: 255})
	defer func() {
		for _, m := range mats {
			m.Close()
		}
	}()
	det := detector.NewMockDetector()
	det.SetSequence(frames)

	stream := server.NewStreamSink()
	hub := server.NewEventHub(logger)
	ts := httptest.NewServer(server.New(server.Config{Stream: stream, Events: hub, Logger: logger}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial events: %v", err)
	}
	defer conn.Close()
	for deadline := time.Now().Add(2 * time.Second); hub.Clients() != 1; {
		if time.Now().After(deadline) {
			t.Fatal("events client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	a := app.New(cfg, app.Deps{
		Camera:     capture.NewMockCamera(mats, false),
		Detector:   det,
		Sinks:      []display.Sink{stream},
		Publishers: []app.Publisher{hub},
		Logger:     logger,
	})

	id := uuid.NewString()
	if _, err := st.Sessions().Start(id); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := a.Stats()
	if err := st.Sessions().Finish(id, stats.Frames, stats.Strokes); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	t.Run("SessionRecorded", func(t *testing.T) {
		sess, err := st.Sessions().GetByID(id)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if sess.Frames != len(frames) || sess.Strokes != 3 {
			t.Errorf("session = %d frames / %d strokes, want %d / 3", sess.Frames, sess.Strokes, len(frames))
		}
		if sess.EndedAt == nil {
			t.Error("session not finished")
		}
	})

	t.Run("EventsStreamed", func(t *testing.T) {
		var got []app.Event
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		for len(got) < len(frames) {
			var ev app.Event
			if err := conn.ReadJSON(&ev); err != nil {
				t.Fatalf("read event %d: %v", len(got), err)
			}
			got = append(got, ev)
		}

		if got[1].Gesture != "draw" || got[1].Color != "Red" {
			t.Errorf("event 1 = %+v, want a red draw", got[1])
		}
		if got[7].Gesture != "select-color" || got[7].Status != "Selected Color: Green" {
			t.Errorf("event 7 = %+v, want a green selection", got[7])
		}
		if got[11].State != "erasing" {
			t.Errorf("event 11 state = %s, want erasing", got[11].State)
		}
	})

	t.Run("StatusEndpoint", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("GET /api/status: %v", err)
		}
		defer resp.Body.Close()

		var ev app.Event
		if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if ev.Frame != len(frames) {
			t.Errorf("last frame = %d, want %d", ev.Frame, len(frames))
		}
		if ev.Thickness != 15 {
			t.Errorf("thickness = %d, want 15", ev.Thickness)
		}
	})
}
