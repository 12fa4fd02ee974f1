package engine

import (
	"time"

	"github.com/coder-dipesh/zentrol/internal/pose"
)

// confidenceFrames is the fixed confidence normalization constant: a pose
// sustained for this many frames reaches full confidence. It is deliberately
// decoupled from Profile.MinFrames; the high-accuracy profile requires more
// frames than this, so confidence saturates before its frame gate opens and
// the frame count becomes the binding constraint there.
const confidenceFrames = 12

// Event is an immutable record of one fired gesture.
type Event struct {
	Pose            pose.Label `json:"pose"`
	Confidence      float64    `json:"confidence"`
	SustainedFrames int        `json:"sustained_frames"`
	Timestamp       time.Time  `json:"timestamp"`
}

// Trigger is the gesture trigger state machine. It tracks how long a
// consensus pose has persisted, scores confidence, applies the
// cooldown/debounce discipline and fires a single discrete event when every
// gate opens. All mutation happens in Step and NoHand, once per processed
// frame; the caller supplies wall-clock time so the machine stays
// deterministic.
type Trigger struct {
	profile Profile
	buffer  *ConsensusBuffer

	tracked    pose.Label
	sustained  int
	confidence float64
	cooldown   int
	lastFire   time.Time
}

// NewTrigger creates a trigger machine for the given profile.
func NewTrigger(profile Profile) *Trigger {
	profile = profile.withDefaults()
	return &Trigger{
		profile: profile,
		buffer:  NewConsensusBuffer(profile.ConsensusSize),
		tracked: pose.Unknown,
	}
}

// Step processes one frame in which a hand is present. It appends the
// frame's pose label to the consensus buffer, advances the machine and
// returns a non-nil Event at most once when a gesture fires.
//
// While the cooldown counter is positive the frame only decrements it and
// feeds the buffer; sustain, confidence and firing are all frozen. The
// cooldown is consumed independently of the confidence/sustain logic so a
// fired gesture cannot re-trigger even if the hand re-enters the same pose
// instantly.
func (t *Trigger) Step(label pose.Label, now time.Time) *Event {
	t.buffer.Push(label)

	if t.cooldown > 0 {
		t.cooldown--
		return nil
	}

	consensus := t.buffer.Consensus()

	if consensus == t.tracked && consensus != pose.Unknown {
		t.sustained++
		t.confidence = confidence(t.sustained)
	} else {
		t.tracked = consensus
		t.sustained = 1
		t.confidence = 0
	}

	if !t.shouldFire(now) {
		return nil
	}

	ev := &Event{
		Pose:            t.tracked,
		Confidence:      t.confidence,
		SustainedFrames: t.sustained,
		Timestamp:       now,
	}

	t.lastFire = now
	t.cooldown = t.profile.CooldownFrames
	t.resetTracking()
	t.buffer.Clear()

	return ev
}

func (t *Trigger) shouldFire(now time.Time) bool {
	if t.tracked == pose.Unknown {
		return false
	}
	if t.confidence < t.profile.MinConfidence {
		return false
	}
	if t.sustained < t.profile.MinFrames {
		return false
	}
	if !t.lastFire.IsZero() && now.Sub(t.lastFire) < t.profile.Debounce {
		return false
	}
	return true
}

// NoHand processes one frame without a detected hand: the tracked pose,
// sustain counter and confidence reset and the consensus buffer empties. A
// dropped hand always cancels an in-progress gesture; it is never remembered
// across an absence. The cooldown counter survives, so hand loss cannot
// bypass the post-trigger freeze.
func (t *Trigger) NoHand() {
	t.resetTracking()
	t.buffer.Clear()
}

func (t *Trigger) resetTracking() {
	t.tracked = pose.Unknown
	t.sustained = 0
	t.confidence = 0
}

// Reset returns the machine to its initial state, including the cooldown
// counter and the debounce clock. Used on pipeline restart.
func (t *Trigger) Reset() {
	t.resetTracking()
	t.buffer.Clear()
	t.cooldown = 0
	t.lastFire = time.Time{}
}

// Tracked returns the currently tracked consensus pose.
func (t *Trigger) Tracked() pose.Label {
	return t.tracked
}

// Sustained returns how many frames the tracked pose has persisted.
func (t *Trigger) Sustained() int {
	return t.sustained
}

// Confidence returns the current confidence in [0,1].
func (t *Trigger) Confidence() float64 {
	return t.confidence
}

// Cooldown returns the remaining frozen-frame count.
func (t *Trigger) Cooldown() int {
	return t.cooldown
}

// confidence maps a sustained-frame count to [0,1].
func confidence(sustained int) float64 {
	c := float64(sustained) / confidenceFrames
	if c > 1 {
		return 1
	}
	return c
}
