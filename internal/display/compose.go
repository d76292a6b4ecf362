// Package display composites the canvas and toolbar over camera frames and
// hands the result to one or more sinks.
package display

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrSizeMismatch is returned when the canvas and frame dimensions differ.
var ErrSizeMismatch = errors.New("canvas and frame sizes differ")

// Compose copies every non-black canvas pixel over frame in place.
// Both Mats are 3-channel BGR of the same size.
func Compose(frame *gocv.Mat, canvas gocv.Mat) error {
	if frame.Rows() != canvas.Rows() || frame.Cols() != canvas.Cols() {
		return fmt.Errorf("compose %dx%d canvas onto %dx%d frame: %w",
			canvas.Cols(), canvas.Rows(), frame.Cols(), frame.Rows(), ErrSizeMismatch)
	}

	// A pixel is ink when any channel is set, so near-black palette colors
	// still show.
	black := gocv.NewMat()
	defer black.Close()
	zero := gocv.NewScalar(0, 0, 0, 0)
	gocv.InRangeWithScalar(canvas, zero, zero, &black)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.BitwiseNot(black, &mask)

	canvas.CopyToWithMask(frame, mask)
	return nil
}

// Mirror flips frame horizontally in place so the user sees a mirror image.
func Mirror(frame *gocv.Mat) {
	gocv.Flip(*frame, frame, 1)
}
