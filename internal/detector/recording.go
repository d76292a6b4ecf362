package detector

import (
	"bufio"
	"fmt"
	"io"
)

// maxResponseLine bounds one service response line.
const maxResponseLine = 1 << 20

// ReadRecording parses a landmark recording: one landmark service response
// per line, one line per frame. Blank lines are skipped.
func ReadRecording(r io.Reader) ([][]HandLandmarks, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxResponseLine)

	var frames [][]HandLandmarks
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		hands, err := parseResponse(text)
		if err != nil {
			return nil, fmt.Errorf("recording line %d: %w", line, err)
		}
		frames = append(frames, hands)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return frames, nil
}
