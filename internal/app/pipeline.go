package app

import (
	"log"
	"time"

	"github.com/coder-dipesh/zentrol/internal/pose"
)

// runPipeline is the main detection loop. It processes one frame per tick
// at the throttled rate; frames arriving faster than the tick interval are
// dropped by the ticker, never queued, so no backlog accumulates.
//
// Per tick, with a hand present:
// landmarks -> finger states -> pose -> consensus -> trigger decision.
// A frame without a hand resets the trigger machine and the finger-state
// windows: a dropped hand always cancels an in-progress gesture.
//
// Motion gating: the loop idles at IdleFPS while the scene is static and no
// hand is seen, and runs at the profile's TargetFPS otherwise. A motionless
// presenter holding a pose keeps the loop active, because a detected hand
// counts as activity.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeFPS := a.config.Profile.TargetFPS

	activeMode := false
	lastActivity := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			started := time.Now()

			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastActivity = started
			}

			if motionDetected && !activeMode {
				activeMode = true
				a.Camera().SetFPS(activeFPS)
				frameInterval = time.Second / time.Duration(activeFPS)
				ticker.Reset(frameInterval)
				log.Println("Switched to active mode")
			}

			if !activeMode {
				frame.Close()
				continue
			}

			hands, err := a.Detector().Detect(frame)
			frame.Close()

			if err != nil {
				// A failed frame is a skipped frame: histories simply do
				// not advance this tick.
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			now := time.Now()

			if len(hands) == 0 {
				a.trigger.NoHand()
				a.estimator.Reset()

				if time.Since(lastActivity) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
				continue
			}

			// A visible hand is activity even when perfectly still.
			lastActivity = now

			hand := &hands[0]
			state := a.estimator.Update(hand)
			label := pose.Classify(state)

			ev := a.trigger.Step(label, now)

			latency := time.Since(started)
			a.perf.Record(latency, now)

			if a.config.Metrics != nil {
				a.config.Metrics.FramesProcessed.Inc()
				a.config.Metrics.FrameLatency.Observe(latency.Seconds())
				a.config.Metrics.FPS.Set(a.perf.FPS())
			}

			if ev != nil {
				a.emit(*ev, hand, latency)
			}
		}
	}
}
