package engine

import (
	"math"
	"testing"
	"time"

	"github.com/coder-dipesh/zentrol/internal/pose"
)

// frameInterval approximates a 15 FPS camera for the wall clock the tests
// feed to Step.
const frameInterval = 66 * time.Millisecond

// testProfile is a minimal-gate profile for exercising one mechanism at a
// time without the balanced profile's long warm-up.
func testProfile() Profile {
	return Profile{
		Name:           "test",
		MinConfidence:  0.25,
		MinFrames:      3,
		Debounce:       500 * time.Millisecond,
		CooldownFrames: 4,
	}.withDefaults()
}

func TestTrigger_BalancedFiresAtFrame13(t *testing.T) {
	tr := NewTrigger(DefaultProfile())
	now := time.Unix(1700000000, 0)

	// With consensus capacity 4 and threshold 3, the first two frames build
	// consensus, frame 3 starts the sustain count, and the 0.88 confidence
	// floor is first met at sustained 11 (11/12 ~ 0.917). That is frame 13.
	for frame := 1; frame <= 12; frame++ {
		if ev := tr.Step(pose.Victory, now); ev != nil {
			t.Fatalf("fired at frame %d, want no event before frame 13", frame)
		}
		now = now.Add(frameInterval)
	}

	ev := tr.Step(pose.Victory, now)
	if ev == nil {
		t.Fatal("no event at frame 13")
	}
	if ev.Pose != pose.Victory {
		t.Errorf("Pose = %q, want %q", ev.Pose, pose.Victory)
	}
	if ev.SustainedFrames != 11 {
		t.Errorf("SustainedFrames = %d, want 11", ev.SustainedFrames)
	}
	if want := 11.0 / 12.0; math.Abs(ev.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %f, want %f", ev.Confidence, want)
	}
	if !ev.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, now)
	}
}

func TestTrigger_FullResetAfterFire(t *testing.T) {
	tr := NewTrigger(DefaultProfile())
	now := time.Unix(1700000000, 0)

	fired := 0
	// Hold the pose long enough for two full cycles: warm-up, fire,
	// cooldown, warm-up again, fire again.
	for frame := 0; frame < 60; frame++ {
		if ev := tr.Step(pose.Victory, now); ev != nil {
			fired++
			if tr.Sustained() != 0 || tr.Tracked() != pose.Unknown {
				t.Errorf("tracking not reset after fire: sustained=%d tracked=%q",
					tr.Sustained(), tr.Tracked())
			}
			if tr.Cooldown() != DefaultProfile().CooldownFrames {
				t.Errorf("Cooldown() = %d, want %d", tr.Cooldown(), DefaultProfile().CooldownFrames)
			}
		}
		now = now.Add(frameInterval)
	}

	// 13 frames to the first fire, 30 cooldown frames, then 13 more
	// working frames land the second fire at frame 56.
	if fired != 2 {
		t.Errorf("fired %d times over 60 frames, want 2", fired)
	}
}

func TestTrigger_CooldownFreezesMachine(t *testing.T) {
	tr := NewTrigger(testProfile())
	now := time.Unix(1700000000, 0)

	step := func(label pose.Label) *Event {
		ev := tr.Step(label, now)
		now = now.Add(frameInterval)
		return ev
	}

	// Drive to the first fire.
	var fired *Event
	for i := 0; i < 20 && fired == nil; i++ {
		fired = step(pose.Fist)
	}
	if fired == nil {
		t.Fatal("never fired under the test profile")
	}

	// Every cooldown frame must be inert regardless of input.
	for i := 0; i < testProfile().CooldownFrames; i++ {
		if tr.Cooldown() == 0 {
			t.Fatalf("cooldown exhausted after %d frames, want %d", i, testProfile().CooldownFrames)
		}
		if ev := step(pose.Fist); ev != nil {
			t.Fatal("fired during cooldown")
		}
		if tr.Sustained() != 0 {
			t.Errorf("sustain advanced during cooldown: %d", tr.Sustained())
		}
	}
	if tr.Cooldown() != 0 {
		t.Errorf("Cooldown() = %d after consuming all frozen frames, want 0", tr.Cooldown())
	}
}

func TestTrigger_DebounceBlocksRefire(t *testing.T) {
	p := testProfile()
	p.CooldownFrames = 0
	tr := NewTrigger(p)
	base := time.Unix(1700000000, 0)

	// First fire: two consensus warm-up frames plus MinFrames sustained.
	now := base
	var first *Event
	for i := 0; i < 20 && first == nil; i++ {
		first = tr.Step(pose.Fist, now)
		now = now.Add(time.Millisecond) // nearly frozen clock
	}
	if first == nil {
		t.Fatal("never fired")
	}

	// With no cooldown the machine can re-arm immediately, but wall-clock
	// debounce still blocks until 500ms after the first fire.
	var second *Event
	for i := 0; i < 20 && second == nil; i++ {
		second = tr.Step(pose.Fist, now)
		now = now.Add(time.Millisecond)
	}
	if second != nil {
		t.Fatalf("refired %s after first fire, want debounce hold", second.Timestamp.Sub(first.Timestamp))
	}

	// Once the debounce window has passed it fires again.
	now = first.Timestamp.Add(p.Debounce)
	for i := 0; i < 20 && second == nil; i++ {
		second = tr.Step(pose.Fist, now)
		now = now.Add(time.Millisecond)
	}
	if second == nil {
		t.Fatal("no second fire after debounce elapsed")
	}
	if got := second.Timestamp.Sub(first.Timestamp); got < p.Debounce {
		t.Errorf("fires %s apart, want >= %s", got, p.Debounce)
	}
}

func TestTrigger_NoHandCancelsSustain(t *testing.T) {
	tr := NewTrigger(testProfile())
	now := time.Unix(1700000000, 0)

	// Build up some sustain without reaching the frame gate.
	tr.Step(pose.OpenPalm, now)
	tr.Step(pose.OpenPalm, now)
	tr.Step(pose.OpenPalm, now)
	if tr.Sustained() == 0 {
		t.Fatal("no sustain built up")
	}

	tr.NoHand()

	if tr.Sustained() != 0 || tr.Confidence() != 0 || tr.Tracked() != pose.Unknown {
		t.Errorf("NoHand left state behind: sustained=%d confidence=%f tracked=%q",
			tr.Sustained(), tr.Confidence(), tr.Tracked())
	}

	// The consensus buffer must also restart from empty: one frame after
	// reacquisition cannot reach consensus again.
	tr.Step(pose.OpenPalm, now)
	if tr.Tracked() != pose.Unknown {
		t.Errorf("consensus survived NoHand: tracked=%q", tr.Tracked())
	}
}

func TestTrigger_NoHandPreservesCooldown(t *testing.T) {
	tr := NewTrigger(testProfile())
	now := time.Unix(1700000000, 0)

	var fired *Event
	for i := 0; i < 20 && fired == nil; i++ {
		fired = tr.Step(pose.Fist, now)
		now = now.Add(frameInterval)
	}
	if fired == nil {
		t.Fatal("never fired")
	}

	before := tr.Cooldown()
	tr.NoHand()
	if tr.Cooldown() != before {
		t.Errorf("NoHand changed cooldown from %d to %d", before, tr.Cooldown())
	}
}

func TestTrigger_UnknownNeverFires(t *testing.T) {
	p := testProfile()
	p.MinConfidence = 0
	p.MinFrames = 1
	tr := NewTrigger(p)
	now := time.Unix(1700000000, 0)

	for i := 0; i < 50; i++ {
		if ev := tr.Step(pose.Unknown, now); ev != nil {
			t.Fatal("fired on unknown pose")
		}
		now = now.Add(frameInterval)
	}
}

func TestTrigger_PoseChangeRestartsSustain(t *testing.T) {
	tr := NewTrigger(DefaultProfile())
	now := time.Unix(1700000000, 0)

	step := func(label pose.Label) {
		tr.Step(label, now)
		now = now.Add(frameInterval)
	}

	for i := 0; i < 5; i++ {
		step(pose.Victory)
	}
	sustained := tr.Sustained()
	if sustained == 0 {
		t.Fatal("no sustain built up")
	}

	// Flood the buffer with a new pose until consensus flips.
	for i := 0; i < 4; i++ {
		step(pose.OpenPalm)
	}

	if tr.Tracked() != pose.OpenPalm {
		t.Fatalf("tracked = %q after pose change, want %q", tr.Tracked(), pose.OpenPalm)
	}
	if tr.Sustained() >= sustained {
		t.Errorf("sustain carried across pose change: %d -> %d", sustained, tr.Sustained())
	}
}

func TestTrigger_ResetClearsCooldownAndDebounce(t *testing.T) {
	tr := NewTrigger(testProfile())
	now := time.Unix(1700000000, 0)

	var fired *Event
	for i := 0; i < 20 && fired == nil; i++ {
		fired = tr.Step(pose.Fist, now)
		now = now.Add(frameInterval)
	}
	if fired == nil {
		t.Fatal("never fired")
	}

	tr.Reset()

	if tr.Cooldown() != 0 {
		t.Errorf("Cooldown() = %d after Reset, want 0", tr.Cooldown())
	}

	// After a full reset the machine behaves like new: it can fire again
	// without waiting out the old debounce window.
	var refired *Event
	for i := 0; i < 20 && refired == nil; i++ {
		refired = tr.Step(pose.Fist, now)
		now = now.Add(time.Millisecond)
	}
	if refired == nil {
		t.Error("no fire after Reset")
	}
}

func TestConfidence_Saturates(t *testing.T) {
	if got := confidence(6); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("confidence(6) = %f, want 0.5", got)
	}
	if got := confidence(12); got != 1 {
		t.Errorf("confidence(12) = %f, want 1", got)
	}
	if got := confidence(500); got != 1 {
		t.Errorf("confidence(500) = %f, want 1", got)
	}
}
