package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Finger group base indices (CMC/MCP joint of each group).
var fingerBases = [...]int{ThumbCMC, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// handWithFingers builds a plausible hand where each finger is extended or
// curled according to the given flags (thumb, index, middle, ring, pinky).
// Extended fingers point upward so the fingertip sits above the PIP joint;
// curled fingers fold the tip back below it. Y grows downward in image space.
func handWithFingers(extended [5]bool) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	for f, base := range fingerBases {
		x := 0.58 - 0.04*float64(f)

		if extended[f] {
			// Joints climb from the knuckle to the tip.
			lm.Points[base+0] = Point3D{X: x, Y: 0.68, Z: 0.0}
			lm.Points[base+1] = Point3D{X: x, Y: 0.56, Z: 0.0}
			lm.Points[base+2] = Point3D{X: x, Y: 0.45, Z: 0.0}
			lm.Points[base+3] = Point3D{X: x, Y: 0.34, Z: 0.0}
		} else {
			// Tip folds back toward the palm, below the PIP joint.
			lm.Points[base+0] = Point3D{X: x, Y: 0.68, Z: -0.02}
			lm.Points[base+1] = Point3D{X: x, Y: 0.64, Z: -0.05}
			lm.Points[base+2] = Point3D{X: x - 0.02, Y: 0.68, Z: -0.04}
			lm.Points[base+3] = Point3D{X: x - 0.04, Y: 0.72, Z: -0.02}
		}
	}

	return lm
}

// Canonical landmark fixtures, one per recognizable pose. Used by the mock
// detector in tests and by the e2e suite.

// ThumbsUpLandmarks returns a hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return handWithFingers([5]bool{true, false, false, false, false})
}

// PointUpLandmarks returns a hand with only the index finger extended.
func PointUpLandmarks() HandLandmarks {
	return handWithFingers([5]bool{false, true, false, false, false})
}

// VictoryLandmarks returns a hand with index and middle fingers extended.
func VictoryLandmarks() HandLandmarks {
	return handWithFingers([5]bool{false, true, true, false, false})
}

// OKLandmarks returns a hand with thumb and index extended.
func OKLandmarks() HandLandmarks {
	return handWithFingers([5]bool{true, true, false, false, false})
}

// FistLandmarks returns a hand with all fingers curled.
func FistLandmarks() HandLandmarks {
	return handWithFingers([5]bool{false, false, false, false, false})
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return handWithFingers([5]bool{true, true, true, true, true})
}
