// Package tray provides the optional system tray menu for the virtual canvas.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/vcanvas/internal/app"
)

// Tray shows whether the board is visible and the current drawing mode, and
// forwards menu clicks to callbacks. It implements app.Publisher so the frame
// loop can keep the menu current.
type Tray struct {
	mu       sync.RWMutex
	onToggle func()
	onQuit   func()
	board    bool
	mode     string

	// Menu items stored for later updates
	menuBoard  *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray. boardShown is the initial board visibility.
func New(boardShown bool) *Tray {
	return &Tray{
		board: boardShown,
		mode:  "idle",
	}
}

// OnToggle sets the callback called when the board item is clicked.
func (t *Tray) OnToggle(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Canvas")
	systray.SetTooltip("Virtual Canvas")

	t.mu.Lock()
	t.menuBoard = systray.AddMenuItem(boardTitle(t.board), "Show or hide the drawing")
	systray.AddSeparator()
	t.menuStatus = systray.AddMenuItem(statusTitle(t.mode), "Current drawing mode")
	t.menuStatus.Disable()
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Virtual Canvas")
	menuBoard := t.menuBoard
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-menuBoard.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.RLock()
	callback := t.onToggle
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// Publish updates the menu from a frame event. Titles are only rewritten
// when they change.
func (t *Tray) Publish(ev app.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ev.Board != t.board {
		t.board = ev.Board
		if t.menuBoard != nil {
			t.menuBoard.SetTitle(boardTitle(t.board))
		}
	}
	if ev.State != t.mode {
		t.mode = ev.State
		if t.menuStatus != nil {
			t.menuStatus.SetTitle(statusTitle(t.mode))
		}
	}
}

// Board reports the board visibility last published.
func (t *Tray) Board() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.board
}

// Mode returns the drawing mode last published.
func (t *Tray) Mode() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

func boardTitle(shown bool) string {
	if shown {
		return "● Board: shown"
	}
	return "○ Board: hidden"
}

func statusTitle(mode string) string {
	return "Mode: " + mode
}
