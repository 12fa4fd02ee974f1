package engine

import "github.com/coder-dipesh/zentrol/internal/pose"

// consensusRatio is the share of the buffer capacity a label must reach
// before it is accepted as the consensus pose.
const consensusRatio = 0.75

// ConsensusBuffer aggregates the last few per-frame pose labels into a
// single consensus pose. It rejects noisy or ambiguous runs: a single
// outlier frame cannot change the recognized gesture, and an indeterminate
// mix yields no consensus at all.
type ConsensusBuffer struct {
	labels []pose.Label
	cap    int
	min    int // winning count required for acceptance
}

// NewConsensusBuffer creates a buffer with the given capacity.
// Capacities smaller than 1 fall back to DefaultConsensusSize.
func NewConsensusBuffer(capacity int) *ConsensusBuffer {
	if capacity < 1 {
		capacity = DefaultConsensusSize
	}
	return &ConsensusBuffer{
		labels: make([]pose.Label, 0, capacity),
		cap:    capacity,
		min:    int(float64(capacity) * consensusRatio),
	}
}

// Push appends one frame's label, evicting the oldest when full.
func (b *ConsensusBuffer) Push(label pose.Label) {
	if len(b.labels) >= b.cap {
		copy(b.labels, b.labels[1:])
		b.labels = b.labels[:len(b.labels)-1]
	}
	b.labels = append(b.labels, label)
}

// Consensus tallies the buffered labels and returns the winner, or
// pose.Unknown when no label reaches the acceptance threshold
// (floor(capacity * 0.75) occurrences). Ties break on the first label
// reaching the maximum count in the fixed pose.Labels scan order.
func (b *ConsensusBuffer) Consensus() pose.Label {
	counts := make(map[pose.Label]int, len(b.labels))
	for _, l := range b.labels {
		counts[l]++
	}

	winner := pose.Unknown
	best := 0
	for _, l := range pose.Labels {
		if counts[l] > best {
			winner = l
			best = counts[l]
		}
	}

	if best < b.min {
		return pose.Unknown
	}
	return winner
}

// Len returns the number of buffered labels.
func (b *ConsensusBuffer) Len() int {
	return len(b.labels)
}

// Clear drops all buffered labels. The next consensus must rebuild from zero.
func (b *ConsensusBuffer) Clear() {
	b.labels = b.labels[:0]
}
