package display

import (
	"errors"

	"go.uber.org/multierr"
	"gocv.io/x/gocv"
)

// ErrQuit is returned by a sink when the user asked to stop.
var ErrQuit = errors.New("quit requested")

// Sink consumes composited frames. Show must not retain frame after returning.
type Sink interface {
	Show(frame gocv.Mat) error
	Close() error
}

type multi []Sink

// Multi returns a sink that shows every frame on each of sinks in order.
// ErrQuit from any sink is reported once the others have seen the frame.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multi) Show(frame gocv.Mat) error {
	var err error
	quit := false
	for _, s := range m {
		serr := s.Show(frame)
		if errors.Is(serr, ErrQuit) {
			quit = true
			continue
		}
		err = multierr.Append(err, serr)
	}
	if quit {
		return ErrQuit
	}
	return err
}

func (m multi) Close() error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Close())
	}
	return err
}
