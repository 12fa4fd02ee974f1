// Package pose turns raw hand landmarks into named hand poses.
//
// The pipeline is split in two stages: an Estimator that converts one frame's
// landmarks into five smoothed "finger extended" flags, and a pure Classify
// function that maps those flags to a pose label.
package pose

import "github.com/coder-dipesh/zentrol/internal/detector"

// Finger identifies one of the five fingers.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// String returns the lowercase finger name.
func (f Finger) String() string {
	switch f {
	case Thumb:
		return "thumb"
	case Index:
		return "index"
	case Middle:
		return "middle"
	case Ring:
		return "ring"
	case Pinky:
		return "pinky"
	}
	return "invalid"
}

// Landmark indices used for the extension test. Each finger group in the
// MediaPipe layout has its fingertip at group offset 3 and the joint below it
// at offset 2 (the PIP for the four fingers, the IP for the thumb).
var (
	tipIndex = [NumFingers]int{
		Thumb:  detector.ThumbTip,
		Index:  detector.IndexTip,
		Middle: detector.MiddleTip,
		Ring:   detector.RingTip,
		Pinky:  detector.PinkyTip,
	}
	jointIndex = [NumFingers]int{
		Thumb:  detector.ThumbIP,
		Index:  detector.IndexPIP,
		Middle: detector.MiddlePIP,
		Ring:   detector.RingPIP,
		Pinky:  detector.PinkyPIP,
	}
)

// FingerState holds the five extended flags for one frame.
type FingerState struct {
	Thumb  bool
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool
}

// ExtendedCount returns how many fingers are extended.
func (s FingerState) ExtendedCount() int {
	n := 0
	for _, up := range [...]bool{s.Thumb, s.Index, s.Middle, s.Ring, s.Pinky} {
		if up {
			n++
		}
	}
	return n
}

// Label is a recognized hand pose.
type Label string

const (
	Victory  Label = "victory"
	PointUp  Label = "point_up"
	ThumbsUp Label = "thumbs_up"
	Fist     Label = "fist"
	OK       Label = "ok"
	OpenPalm Label = "open_palm"
	Unknown  Label = "unknown"
)

// Labels lists every pose label in classification priority order. The order
// is load-bearing: consensus tie-breaking scans labels in this order.
var Labels = []Label{Victory, PointUp, ThumbsUp, OK, Fist, OpenPalm, Unknown}

// Classify maps a finger state to a pose label.
//
// Rules are evaluated in strict priority order and the first match wins;
// several patterns overlap (a loose fist resembles a partial point-up), so
// the order is a deliberate disambiguation policy:
//
//	victory:   index+middle up, ring+pinky down, thumb ignored
//	point_up:  index up, everything else down
//	thumbs_up: thumb up, everything else down
//	ok:        thumb+index up, middle/ring/pinky down
//	fist:      middle/ring/pinky down and at most 2 fingers up
//	open_palm: at least 4 fingers up
//
// Classify is a pure function: identical inputs always yield the same label.
func Classify(s FingerState) Label {
	switch {
	case s.Index && s.Middle && !s.Ring && !s.Pinky:
		return Victory
	case s.Index && !s.Thumb && !s.Middle && !s.Ring && !s.Pinky:
		return PointUp
	case s.Thumb && !s.Index && !s.Middle && !s.Ring && !s.Pinky:
		return ThumbsUp
	case s.Thumb && s.Index && !s.Middle && !s.Ring && !s.Pinky:
		return OK
	case !s.Middle && !s.Ring && !s.Pinky && s.ExtendedCount() <= 2:
		return Fist
	case s.ExtendedCount() >= 4:
		return OpenPalm
	}
	return Unknown
}
