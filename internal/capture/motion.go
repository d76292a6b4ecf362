package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const (
	// BlurKernel is the Gaussian kernel applied before differencing.
	BlurKernel = 21
	// DiffThreshold is the per-pixel intensity change counted as motion.
	DiffThreshold = 25
	// DefaultMotionThreshold is the percentage of changed pixels that counts as motion.
	DefaultMotionThreshold = 1.0
)

// MotionDetector compares each frame with the previous one and reports the
// share of pixels that changed.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	prev      gocv.Mat
	hasPrev   bool
}

// NewMotionDetector creates a detector reporting motion when more than
// threshold percent of the pixels change. Values <= 0 use DefaultMotionThreshold.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionDetector{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect returns whether frame differs from the previous frame and the
// percentage of changed pixels. The first frame only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	gocv.GaussianBlur(gray, &gray, image.Pt(BlurKernel, BlurKernel), 0, 0, gocv.BorderDefault)

	defer gray.CopyTo(&m.prev)

	if !m.hasPrev || m.prev.Rows() != gray.Rows() || m.prev.Cols() != gray.Cols() {
		m.hasPrev = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, m.prev, &diff)
	gocv.Threshold(diff, &diff, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100
	return changed > m.threshold, changed
}

// Reset drops the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasPrev = false
}

// Close releases the baseline frame.
func (m *MotionDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasPrev = false
	return m.prev.Close()
}

// Governor picks the capture rate from recent motion: ActiveFPS while the
// scene moves, IdleFPS after IdleTimeout without motion.
type Governor struct {
	ActiveFPS   int
	IdleFPS     int
	IdleTimeout time.Duration

	lastMotion time.Time
	fps        int
}

// NewGovernor creates a governor that starts at the active rate.
func NewGovernor(activeFPS, idleFPS int, idleTimeout time.Duration) *Governor {
	return &Governor{
		ActiveFPS:   activeFPS,
		IdleFPS:     idleFPS,
		IdleTimeout: idleTimeout,
		fps:         activeFPS,
	}
}

// Observe records whether the frame captured at now showed motion and
// returns the rate to use next, and whether it differs from the previous one.
func (g *Governor) Observe(motion bool, now time.Time) (int, bool) {
	if motion || g.lastMotion.IsZero() {
		g.lastMotion = now
	}

	want := g.ActiveFPS
	if now.Sub(g.lastMotion) >= g.IdleTimeout {
		want = g.IdleFPS
	}

	changed := want != g.fps
	g.fps = want
	return want, changed
}

// FPS returns the current rate.
func (g *Governor) FPS() int {
	return g.fps
}
