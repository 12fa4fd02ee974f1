package engine

import (
	"sync"
	"time"
)

// latencyWindow is the trailing per-frame latency sample capacity.
const latencyWindow = 60

// PerfSampler tracks frames processed per wall-clock second and a bounded
// trailing window of per-frame processing latencies. It is purely advisory:
// the gesture pipeline never consults it for correctness.
type PerfSampler struct {
	mu sync.Mutex

	windowStart time.Time
	frames      int
	fps         float64

	latencies []time.Duration
}

// PerfSnapshot is a point-in-time view of the sampler.
type PerfSnapshot struct {
	FPS          float64 `json:"fps"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// NewPerfSampler creates an idle sampler.
func NewPerfSampler() *PerfSampler {
	return &PerfSampler{
		latencies: make([]time.Duration, 0, latencyWindow),
	}
}

// Record registers one processed frame and its processing latency.
func (p *PerfSampler) Record(latency time.Duration, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.windowStart.IsZero() {
		p.windowStart = now
	}

	p.frames++
	if elapsed := now.Sub(p.windowStart); elapsed >= time.Second {
		p.fps = float64(p.frames) / elapsed.Seconds()
		p.frames = 0
		p.windowStart = now
	}

	if len(p.latencies) >= latencyWindow {
		copy(p.latencies, p.latencies[1:])
		p.latencies = p.latencies[:len(p.latencies)-1]
	}
	p.latencies = append(p.latencies, latency)
}

// FPS returns the frame rate measured over the last completed 1-second
// window, or 0 before the first window completes.
func (p *PerfSampler) FPS() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fps
}

// AvgLatencyMs returns the rolling average frame latency in milliseconds.
func (p *PerfSampler) AvgLatencyMs() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.avgLatencyMsLocked()
}

func (p *PerfSampler) avgLatencyMsLocked() float64 {
	if len(p.latencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, l := range p.latencies {
		total += l
	}
	avg := total / time.Duration(len(p.latencies))
	return float64(avg) / float64(time.Millisecond)
}

// Snapshot returns the current fps and rolling average latency.
func (p *PerfSampler) Snapshot() PerfSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PerfSnapshot{
		FPS:          p.fps,
		AvgLatencyMs: p.avgLatencyMsLocked(),
	}
}

// Reset discards all samples.
func (p *PerfSampler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.windowStart = time.Time{}
	p.frames = 0
	p.fps = 0
	p.latencies = p.latencies[:0]
}
