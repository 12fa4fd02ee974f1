// Package engine turns per-frame pose classifications into discrete,
// debounced gesture events.
//
// Per frame the consensus buffer aggregates recent pose labels into a single
// consensus pose, and the trigger machine tracks how long that pose has been
// sustained, scores confidence and fires at most one event once all gates
// open. The engine performs no timing of its own: the host feeds it
// already-throttled frames and a wall-clock timestamp.
package engine

import (
	"fmt"
	"time"
)

// Tuning defaults shared by all profiles.
const (
	// DefaultSmoothingWindow is the finger-state history capacity.
	DefaultSmoothingWindow = 9
	// DefaultConsensusSize is the consensus buffer capacity.
	DefaultConsensusSize = 4
	// DefaultTargetFPS is the frame processing throttle rate.
	DefaultTargetFPS = 15
)

// Profile is an immutable named tuning profile for the trigger machine.
type Profile struct {
	Name string

	// MinConfidence is the trigger confidence floor in [0,1].
	MinConfidence float64
	// MinFrames is the sustained-frame floor.
	MinFrames int
	// Debounce is the minimum wall-clock spacing between triggers.
	Debounce time.Duration
	// CooldownFrames is the post-trigger frozen-frame count.
	CooldownFrames int

	// SmoothingWindow is the finger-state history capacity.
	SmoothingWindow int
	// ConsensusSize is the consensus buffer capacity.
	ConsensusSize int
	// TargetFPS is the frame processing throttle rate.
	TargetFPS int
}

// Built-in profiles. They differ only in the four trigger-tuning values.
var profiles = map[string]Profile{
	"high-accuracy": {
		Name:           "high-accuracy",
		MinConfidence:  0.92,
		MinFrames:      15,
		Debounce:       1500 * time.Millisecond,
		CooldownFrames: 35,
	},
	"responsive": {
		Name:           "responsive",
		MinConfidence:  0.75,
		MinFrames:      8,
		Debounce:       800 * time.Millisecond,
		CooldownFrames: 20,
	},
	"balanced": {
		Name:           "balanced",
		MinConfidence:  0.88,
		MinFrames:      10,
		Debounce:       1200 * time.Millisecond,
		CooldownFrames: 30,
	},
}

// ProfileByName returns a built-in profile with defaults filled in.
// Known names: "high-accuracy", "responsive", "balanced".
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p.withDefaults(), nil
}

// DefaultProfile returns the balanced profile.
func DefaultProfile() Profile {
	p := profiles["balanced"]
	return p.withDefaults()
}

func (p Profile) withDefaults() Profile {
	if p.SmoothingWindow == 0 {
		p.SmoothingWindow = DefaultSmoothingWindow
	}
	if p.ConsensusSize == 0 {
		p.ConsensusSize = DefaultConsensusSize
	}
	if p.TargetFPS == 0 {
		p.TargetFPS = DefaultTargetFPS
	}
	return p
}
