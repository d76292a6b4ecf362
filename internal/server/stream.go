package server

import (
	"fmt"
	"net/http"
	"sync"

	"gocv.io/x/gocv"
)

// StreamSink is a display.Sink that JPEG-encodes each composited frame and
// serves the latest one as an MJPEG stream.
type StreamSink struct {
	mu      sync.Mutex
	jpeg    []byte
	updated chan struct{}
	closed  bool
}

// NewStreamSink creates an empty stream.
func NewStreamSink() *StreamSink {
	return &StreamSink{updated: make(chan struct{})}
}

// Show encodes frame and wakes every connected client.
func (s *StreamSink) Show(frame gocv.Mat) error {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return fmt.Errorf("encode stream frame: %w", err)
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	s.update(data)
	return nil
}

func (s *StreamSink) update(jpeg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.jpeg = jpeg
	close(s.updated)
	s.updated = make(chan struct{})
}

// next returns the latest frame and a channel closed when a newer one
// arrives. ok is false once the sink is closed.
func (s *StreamSink) next() (jpeg []byte, updated <-chan struct{}, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jpeg, s.updated, !s.closed
}

// Close ends every open stream. It is safe to call more than once.
func (s *StreamSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updated)
	}
	return nil
}

// ServeHTTP streams MJPEG frames to a client until it disconnects or the
// sink is closed.
func (s *StreamSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	var sent []byte
	for {
		jpeg, updated, ok := s.next()
		if !ok {
			return
		}

		if len(jpeg) > 0 && !sameFrame(jpeg, sent) {
			if err := writePart(w, jpeg); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
			sent = jpeg
		}

		select {
		case <-r.Context().Done():
			return
		case <-updated:
		}
	}
}

// sameFrame reports whether a and b are the same stored buffer.
func sameFrame(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
