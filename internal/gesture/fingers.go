package gesture

import (
	"strings"

	"github.com/ayusman/vcanvas/internal/detector"
)

// Fingers is a set of extended fingers.
type Fingers uint8

// Finger bits.
const (
	Thumb Fingers = 1 << iota
	Index
	Middle
	Ring
	Pinky

	// AllFingers is the open hand.
	AllFingers = Thumb | Index | Middle | Ring | Pinky
)

// Has reports whether every finger in f is in the set.
func (s Fingers) Has(f Fingers) bool {
	return s&f == f
}

func (s Fingers) String() string {
	if s == 0 {
		return "none"
	}
	names := []string{"thumb", "index", "middle", "ring", "pinky"}
	var parts []string
	for i, name := range names {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "+")
}

// Pose is the drawing meaning of a finger combination, before any
// positional lookup.
type Pose int

const (
	PoseNone Pose = iota
	PoseDraw
	PoseSelect
	PoseErase
)

// poses maps finger combinations to poses. The thumb is loose in most
// poses, so each entry appears with and without it.
var poses = map[Fingers]Pose{
	Index:                         PoseDraw,
	Thumb | Index:                 PoseDraw,
	Index | Middle:                PoseSelect,
	Thumb | Index | Middle:        PoseSelect,
	Index | Middle | Ring | Pinky: PoseErase,
	AllFingers:                    PoseErase,
}

// PoseOf returns the pose for a finger combination. Unlisted combinations,
// including the fist, are PoseNone.
func PoseOf(f Fingers) Pose {
	return poses[f]
}

// fingerJoints lists MCP, PIP, DIP and TIP for the four long fingers.
var fingerJoints = []struct {
	finger Fingers
	joints [4]int
}{
	{Index, [4]int{detector.IndexMCP, detector.IndexPIP, detector.IndexDIP, detector.IndexTip}},
	{Middle, [4]int{detector.MiddleMCP, detector.MiddlePIP, detector.MiddleDIP, detector.MiddleTip}},
	{Ring, [4]int{detector.RingMCP, detector.RingPIP, detector.RingDIP, detector.RingTip}},
	{Pinky, [4]int{detector.PinkyMCP, detector.PinkyPIP, detector.PinkyDIP, detector.PinkyTip}},
}

// ExtendedFingers returns the set of extended fingers.
//
// A long finger is extended when its joints are strictly ordered upward from
// knuckle to tip. The thumb bends sideways, so it is extended when its tip is
// farther than thumbSpread hand units from the index knuckle.
func ExtendedFingers(hand *detector.HandLandmarks, thumbSpread float64) Fingers {
	if hand == nil {
		return 0
	}

	var set Fingers
	for _, f := range fingerJoints {
		mcp := hand.Points[f.joints[0]].Y
		pip := hand.Points[f.joints[1]].Y
		dip := hand.Points[f.joints[2]].Y
		tip := hand.Points[f.joints[3]].Y
		if tip < dip && dip < pip && pip < mcp {
			set |= f.finger
		}
	}

	if norm := hand.Normalize(); norm.Distance(detector.ThumbTip, detector.IndexMCP) > thumbSpread {
		set |= Thumb
	}

	return set
}
