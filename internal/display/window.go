package display

import (
	"gocv.io/x/gocv"
)

const (
	// EscKey is the key code that closes the window.
	EscKey = 27
	// DefaultTitle is the window title.
	DefaultTitle = "Virtual Canvas"
)

// Window shows frames in a HighGUI window and reports ErrQuit on ESC.
type Window struct {
	win   *gocv.Window
	delay int
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title), delay: 1}
}

func (w *Window) Show(frame gocv.Mat) error {
	w.win.IMShow(frame)
	if w.win.WaitKey(w.delay) == EscKey {
		return ErrQuit
	}
	return nil
}

func (w *Window) Close() error {
	return w.win.Close()
}
