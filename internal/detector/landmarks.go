// Package detector provides hand landmark detection for the Zentrol
// presentation controller.
package detector

// Hand landmark indices following MediaPipe convention. Finger joints are
// grouped consecutively per finger; within each group, offset 3 is the
// fingertip and offset 2 the joint below it.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a 3D point in normalized image coordinates. X and Y are in
// [0,1] with Y growing downward; Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand: 21 landmark points plus handedness
// and the detector's own confidence score. Immutable once received.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Position returns a representative hand position for event logging: the
// centroid of the wrist and the four finger MCP knuckles, which stays stable
// while fingers move.
func (h *HandLandmarks) Position() Point3D {
	anchors := [...]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

	var p Point3D
	for _, i := range anchors {
		p.X += h.Points[i].X
		p.Y += h.Points[i].Y
		p.Z += h.Points[i].Z
	}

	n := float64(len(anchors))
	p.X /= n
	p.Y /= n
	p.Z /= n
	return p
}
