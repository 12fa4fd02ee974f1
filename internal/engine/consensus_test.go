package engine

import (
	"testing"

	"github.com/coder-dipesh/zentrol/internal/pose"
)

func TestConsensusBuffer_Threshold(t *testing.T) {
	// Capacity 4 requires floor(4 * 0.75) = 3 matching labels.
	b := NewConsensusBuffer(4)

	b.Push(pose.Fist)
	b.Push(pose.Fist)
	if got := b.Consensus(); got != pose.Unknown {
		t.Errorf("consensus with 2 of 4 = %q, want %q", got, pose.Unknown)
	}

	b.Push(pose.Fist)
	b.Push(pose.Victory)
	if got := b.Consensus(); got != pose.Fist {
		t.Errorf("consensus with 3 fist + 1 victory = %q, want %q", got, pose.Fist)
	}
}

func TestConsensusBuffer_SplitYieldsUnknown(t *testing.T) {
	b := NewConsensusBuffer(4)

	b.Push(pose.Fist)
	b.Push(pose.Fist)
	b.Push(pose.Victory)
	b.Push(pose.Victory)

	if got := b.Consensus(); got != pose.Unknown {
		t.Errorf("consensus on a 2/2 split = %q, want %q", got, pose.Unknown)
	}
}

func TestConsensusBuffer_Eviction(t *testing.T) {
	b := NewConsensusBuffer(4)

	// Fill with fist, then push victory until fist ages out.
	for i := 0; i < 4; i++ {
		b.Push(pose.Fist)
	}
	for i := 0; i < 3; i++ {
		b.Push(pose.Victory)
	}

	if b.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", b.Len())
	}
	if got := b.Consensus(); got != pose.Victory {
		t.Errorf("consensus after eviction = %q, want %q", got, pose.Victory)
	}
}

func TestConsensusBuffer_Clear(t *testing.T) {
	b := NewConsensusBuffer(4)
	for i := 0; i < 4; i++ {
		b.Push(pose.OpenPalm)
	}

	b.Clear()

	if b.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", b.Len())
	}
	if got := b.Consensus(); got != pose.Unknown {
		t.Errorf("consensus of empty buffer = %q, want %q", got, pose.Unknown)
	}
}

func TestConsensusBuffer_LargerCapacity(t *testing.T) {
	// Capacity 8 requires floor(8 * 0.75) = 6 matching labels.
	b := NewConsensusBuffer(8)

	for i := 0; i < 3; i++ {
		b.Push(pose.Unknown)
	}
	for i := 0; i < 5; i++ {
		b.Push(pose.PointUp)
	}
	if got := b.Consensus(); got != pose.Unknown {
		t.Errorf("consensus with 5 of 8 = %q, want %q", got, pose.Unknown)
	}

	// One more push evicts an unknown; the window now holds 6 point_up.
	b.Push(pose.PointUp)
	if got := b.Consensus(); got != pose.PointUp {
		t.Errorf("consensus with 6 of 8 = %q, want %q", got, pose.PointUp)
	}
}

func TestNewConsensusBuffer_InvalidCapacity(t *testing.T) {
	b := NewConsensusBuffer(0)
	for i := 0; i < DefaultConsensusSize; i++ {
		b.Push(pose.Fist)
	}
	if got := b.Consensus(); got != pose.Fist {
		t.Errorf("fallback capacity consensus = %q, want %q", got, pose.Fist)
	}
}
