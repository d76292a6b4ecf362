package tray

import (
	"testing"

	"github.com/ayusman/vcanvas/internal/app"
)

func TestTitles(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"board shown", boardTitle(true), "● Board: shown"},
		{"board hidden", boardTitle(false), "○ Board: hidden"},
		{"status", statusTitle("drawing"), "Mode: drawing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTray_PublishBeforeReady(t *testing.T) {
	tr := New(true)

	if !tr.Board() || tr.Mode() != "idle" {
		t.Fatalf("initial state = %v/%s", tr.Board(), tr.Mode())
	}

	tr.Publish(app.Event{Board: false, State: "erasing"})

	if tr.Board() {
		t.Error("Board() = true after hidden event")
	}
	if tr.Mode() != "erasing" {
		t.Errorf("Mode() = %s, want erasing", tr.Mode())
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New(true)

	// Clicks without callbacks are ignored.
	tr.handleToggle()
	tr.handleQuit()

	var toggles, quits int
	tr.OnToggle(func() { toggles++ })
	tr.OnQuit(func() { quits++ })

	tr.handleToggle()
	tr.handleToggle()
	tr.handleQuit()

	if toggles != 2 {
		t.Errorf("toggles = %d, want 2", toggles)
	}
	if quits != 1 {
		t.Errorf("quits = %d, want 1", quits)
	}
}

func TestTray_WiresToAppCommands(t *testing.T) {
	var _ app.Publisher = (*Tray)(nil)

	commands := make(chan app.Command, 2)
	tr := New(true)
	tr.OnToggle(func() { commands <- app.CommandToggleBoard })
	tr.OnQuit(func() { commands <- app.CommandQuit })

	tr.handleToggle()
	tr.handleQuit()

	if got := <-commands; got != app.CommandToggleBoard {
		t.Errorf("first command = %s", got)
	}
	if got := <-commands; got != app.CommandQuit {
		t.Errorf("second command = %s", got)
	}
}
