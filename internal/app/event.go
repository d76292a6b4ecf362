package app

import (
	"time"
)

// Point is a pixel position in an Event.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Event summarizes one processed frame for observers outside the frame loop.
type Event struct {
	Frame     int       `json:"frame"`
	Time      time.Time `json:"time"`
	Gesture   string    `json:"gesture"`
	State     string    `json:"state"`
	Color     string    `json:"color"`
	Thickness int       `json:"thickness"`
	Board     bool      `json:"board"`
	Tip       *Point    `json:"tip,omitempty"`
	Status    string    `json:"status,omitempty"`
}

// Publisher receives an Event for every processed frame. Publish is called
// on the frame loop goroutine and must not block.
type Publisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Event)

func (f PublisherFunc) Publish(e Event) { f(e) }

// Command is a request delivered to the frame loop from another goroutine.
type Command int

const (
	// CommandToggleBoard shows or hides the canvas.
	CommandToggleBoard Command = iota
	// CommandQuit stops the loop.
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandToggleBoard:
		return "toggle-board"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}
