// Package gesture turns hand landmarks into discrete drawing commands.
package gesture

import (
	"fmt"
	"image"
	"strings"

	"github.com/ayusman/vcanvas/internal/detector"
	"github.com/ayusman/vcanvas/internal/menu"
)

// SelectedHand is the index of the hand used for drawing when several are detected.
const SelectedHand = 0

// Kind is the discrete meaning of a hand pose in one frame.
type Kind int

const (
	// KindIdle means no drawing action: no hand, a fist, or an unknown pose.
	KindIdle Kind = iota
	// KindDraw paints with the active color at the index fingertip.
	KindDraw
	// KindErase paints with the background color at the index fingertip.
	KindErase
	// KindSelectColor selects the palette color at Signal.Index.
	KindSelectColor
	// KindSelectThickness selects the brush size at Signal.Index.
	KindSelectThickness
	// KindHover is the selection pose with the fingertip outside every toolbar button.
	KindHover
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindDraw:
		return "draw"
	case KindErase:
		return "erase"
	case KindSelectColor:
		return "select-color"
	case KindSelectThickness:
		return "select-thickness"
	case KindHover:
		return "hover"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Signal is the classifier output for one frame.
type Signal struct {
	Kind Kind
	// Index is the palette or size index for the select kinds.
	Index int
	// Tip is the index fingertip in frame pixels, valid when HasTip is set.
	Tip    image.Point
	HasTip bool
}

// Idle returns an idle signal with no fingertip.
func Idle() Signal {
	return Signal{Kind: KindIdle}
}

func (s Signal) String() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	if s.Kind == KindSelectColor || s.Kind == KindSelectThickness {
		fmt.Fprintf(&b, "(%d)", s.Index)
	}
	if s.HasTip {
		fmt.Fprintf(&b, "@%d,%d", s.Tip.X, s.Tip.Y)
	}
	return b.String()
}

// Config holds classifier thresholds.
type Config struct {
	// MinConfidence is the detection score below which a hand is ignored.
	MinConfidence float64
	// ThumbSpread is the thumb-tip to index-knuckle distance, in units of
	// wrist to middle-knuckle distance, above which the thumb counts as extended.
	ThumbSpread float64
}

// DefaultConfig returns the default classifier thresholds.
func DefaultConfig() Config {
	return Config{
		MinConfidence: 0.7,
		ThumbSpread:   1.0,
	}
}

// Classifier maps landmark sets to signals. It holds no per-frame state.
type Classifier struct {
	config Config
	menu   *menu.Menu
}

// NewClassifier creates a classifier that resolves the selection pose against m.
// A nil menu turns every selection into KindHover.
func NewClassifier(config Config, m *menu.Menu) *Classifier {
	return &Classifier{config: config, menu: m}
}

// Classify returns the signal for the hands detected in a frame of the given size.
func (c *Classifier) Classify(hands []detector.HandLandmarks, frameSize image.Point) Signal {
	if len(hands) <= SelectedHand {
		return Idle()
	}
	return c.ClassifyHand(&hands[SelectedHand], frameSize)
}

// ClassifyHand returns the signal for a single hand.
func (c *Classifier) ClassifyHand(hand *detector.HandLandmarks, frameSize image.Point) Signal {
	if hand == nil || hand.Score < c.config.MinConfidence {
		return Idle()
	}

	sig := Signal{
		Kind:   KindIdle,
		Tip:    hand.Pixel(detector.IndexTip, frameSize),
		HasTip: true,
	}

	switch PoseOf(ExtendedFingers(hand, c.config.ThumbSpread)) {
	case PoseDraw:
		sig.Kind = KindDraw
	case PoseErase:
		sig.Kind = KindErase
	case PoseSelect:
		sig.Kind = KindHover
		if b, ok := c.menu.HitTest(sig.Tip); ok {
			sig.Index = b.Index
			switch b.Kind {
			case menu.KindColor:
				sig.Kind = KindSelectColor
			case menu.KindSize:
				sig.Kind = KindSelectThickness
			}
		}
	}

	return sig
}
