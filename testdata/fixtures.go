// Package testdata holds recorded landmark sequences for end-to-end tests.
package testdata

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/ayusman/vcanvas/internal/detector"
)

//go:embed landmarks/*.jsonl
var landmarksFS embed.FS

// DrawSelectErase is a 640x480 session: a five-frame stroke, a green
// selection from the toolbar, a second stroke, two erase frames and a
// low-confidence hand.
const DrawSelectErase = "draw_select_erase.jsonl"

// LoadRecording loads a landmark recording by file name. Each element is
// the detector output for one frame.
func LoadRecording(name string) ([][]detector.HandLandmarks, error) {
	data, err := landmarksFS.ReadFile("landmarks/" + name)
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", name, err)
	}

	frames, err := detector.ReadRecording(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode recording %s: %w", name, err)
	}
	return frames, nil
}

// Recordings lists the embedded recordings.
func Recordings() ([]string, error) {
	entries, err := landmarksFS.ReadDir("landmarks")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
