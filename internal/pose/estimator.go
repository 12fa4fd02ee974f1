package pose

import "github.com/coder-dipesh/zentrol/internal/detector"

// DefaultSmoothingWindow is the per-finger history capacity.
const DefaultSmoothingWindow = 9

// history is a bounded FIFO of raw extended flags for one finger.
// Length never exceeds capacity; the oldest entry is evicted first.
type history struct {
	entries []bool
	cap     int
}

func newHistory(capacity int) *history {
	return &history{
		entries: make([]bool, 0, capacity),
		cap:     capacity,
	}
}

// push appends a raw flag, evicting the oldest entry when full.
func (h *history) push(extended bool) {
	if len(h.entries) >= h.cap {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, extended)
}

// majority reports whether strictly more than half of the stored entries
// are true. An empty history is never a majority.
func (h *history) majority() bool {
	trues := 0
	for _, e := range h.entries {
		if e {
			trues++
		}
	}
	return trues*2 > len(h.entries)
}

func (h *history) clear() {
	h.entries = h.entries[:0]
}

// Estimator converts one frame's landmarks into five smoothed extended
// flags. Each finger keeps a bounded history of raw per-frame flags and the
// reported state is a majority vote over that trailing window, which damps
// single-frame jitter from detector noise.
type Estimator struct {
	histories [NumFingers]*history
}

// NewEstimator creates an Estimator with the given smoothing window.
// Windows smaller than 1 fall back to DefaultSmoothingWindow.
func NewEstimator(window int) *Estimator {
	if window < 1 {
		window = DefaultSmoothingWindow
	}
	e := &Estimator{}
	for f := Finger(0); f < NumFingers; f++ {
		e.histories[f] = newHistory(window)
	}
	return e
}

// Update ingests one frame of landmarks and returns the smoothed finger
// state. A finger's raw flag for the frame is true when its fingertip sits
// above its PIP joint; image Y grows downward, so "above" means a smaller
// Y coordinate.
func (e *Estimator) Update(hand *detector.HandLandmarks) FingerState {
	for f := Finger(0); f < NumFingers; f++ {
		tip := hand.Points[tipIndex[f]]
		joint := hand.Points[jointIndex[f]]
		e.histories[f].push(tip.Y < joint.Y)
	}

	return FingerState{
		Thumb:  e.histories[Thumb].majority(),
		Index:  e.histories[Index].majority(),
		Middle: e.histories[Middle].majority(),
		Ring:   e.histories[Ring].majority(),
		Pinky:  e.histories[Pinky].majority(),
	}
}

// Reset clears all five histories. Called when the hand leaves the frame or
// the pipeline restarts, so a reacquired hand starts from a clean window.
func (e *Estimator) Reset() {
	for f := Finger(0); f < NumFingers; f++ {
		e.histories[f].clear()
	}
}
