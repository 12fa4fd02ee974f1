// Package app wires the Zentrol gesture pipeline together: camera frames in,
// debounced gesture events out.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coder-dipesh/zentrol/internal/action"
	"github.com/coder-dipesh/zentrol/internal/capture"
	"github.com/coder-dipesh/zentrol/internal/delivery"
	"github.com/coder-dipesh/zentrol/internal/detector"
	"github.com/coder-dipesh/zentrol/internal/engine"
	"github.com/coder-dipesh/zentrol/internal/metrics"
	"github.com/coder-dipesh/zentrol/internal/pose"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while the scene is static and no hand is
	// tracked. The profile's TargetFPS applies while active.
	IdleFPS = 5
	// IdleTimeoutMs is how long the scene must stay inactive before
	// dropping back to idle mode.
	IdleTimeoutMs = 2000
)

// Listener observes fired gesture events. Listeners run outside the frame
// loop; a slow listener cannot delay the trigger machine.
type Listener func(ev engine.Event, perf engine.PerfSnapshot)

// Config holds configuration options for the application.
type Config struct {
	Profile      engine.Profile
	CameraID     int
	MotionThresh float64
	SessionID    string

	// Optional collaborators; nil disables the concern.
	Emitter *delivery.Emitter
	Actions *action.Controller
	Metrics *metrics.Metrics
}

// App runs the gesture pipeline: capture, detection, finger-state
// estimation, classification and triggering execute in strict sequence
// within one frame's processing step. There is no concurrent frame
// processing; only event fan-out leaves the loop.
type App struct {
	config    Config
	camera    capture.Camera
	motion    *capture.MotionDetector
	detector  detector.Detector
	estimator *pose.Estimator
	trigger   *engine.Trigger
	perf      *engine.PerfSampler

	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}
	listeners []Listener
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	config.Profile = normalizeProfile(config.Profile)

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	if config.SessionID == "" {
		config.SessionID = uuid.New().String()
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		motion:    capture.NewMotionDetector(motionThreshold),
		estimator: pose.NewEstimator(config.Profile.SmoothingWindow),
		trigger:   engine.NewTrigger(config.Profile),
		perf:      engine.NewPerfSampler(),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

func normalizeProfile(p engine.Profile) engine.Profile {
	if p.Name == "" {
		return engine.DefaultProfile()
	}
	return p
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// RegisterListener adds an observer for fired gesture events.
func (a *App) RegisterListener(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

// SessionID returns this run's session identifier.
func (a *App) SessionID() string {
	return a.config.SessionID
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return engine.E(engine.KindCamera, err)
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Printf("Detection pipeline started (profile %s, session %s)",
		a.config.Profile.Name, a.config.SessionID)
	return nil
}

// Stop halts the detection pipeline and discards all buffered history:
// finger-state windows, consensus buffer and trigger state all restart from
// empty on the next Start.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.estimator.Reset()
	a.trigger.Reset()
	a.perf.Reset()

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Perf returns the performance sampler.
func (a *App) Perf() *engine.PerfSampler {
	return a.perf
}

// notify fans an event out to the registered listeners without blocking
// the frame loop.
func (a *App) notify(ev engine.Event, snap engine.PerfSnapshot) {
	a.mu.RLock()
	listeners := make([]Listener, len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.RUnlock()

	for _, l := range listeners {
		go l(ev, snap)
	}
}

// emit hands a fired event to the delivery and action collaborators.
// Delivery failures are absorbed downstream and never reach trigger state.
func (a *App) emit(ev engine.Event, hand *detector.HandLandmarks, latency time.Duration) {
	snap := a.perf.Snapshot()

	if a.config.Metrics != nil {
		a.config.Metrics.GesturesFired.WithLabelValues(string(ev.Pose)).Inc()
	}

	if a.config.Emitter != nil {
		p := hand.Position()
		a.config.Emitter.Emit(delivery.Record{
			ID:              uuid.New().String(),
			SessionID:       a.config.SessionID,
			Gesture:         ev.Pose,
			Confidence:      ev.Confidence,
			FrameCount:      ev.SustainedFrames,
			HandX:           p.X,
			HandY:           p.Y,
			HandZ:           p.Z,
			DetectionTimeMs: float64(latency) / float64(time.Millisecond),
			FPS:             snap.FPS,
			Timestamp:       ev.Timestamp,
		})
	}

	if a.config.Actions != nil {
		go func(p pose.Label) {
			if err := a.config.Actions.Execute(p); err != nil {
				log.Printf("execute action for %s: %v", p, err)
			}
		}(ev.Pose)
	}

	a.notify(ev, snap)
}
