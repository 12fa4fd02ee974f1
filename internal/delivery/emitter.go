// Package delivery hands fired gesture events to downstream consumers.
//
// Delivery is explicitly decoupled from the gesture pipeline: the emitter
// accepts an event without blocking and fans it out to its sinks on a
// background worker. A failing or slow sink is logged and absorbed; it can
// never roll back or delay a trigger decision.
package delivery

import (
	"log"
	"time"

	"github.com/coder-dipesh/zentrol/internal/engine"
	"github.com/coder-dipesh/zentrol/internal/pose"
)

// Record is the persisted/logged form of one fired gesture, one record per
// trigger.
type Record struct {
	ID              string     `json:"id"`
	SessionID       string     `json:"session_id"`
	Gesture         pose.Label `json:"gesture_type"`
	Confidence      float64    `json:"confidence"`
	FrameCount      int        `json:"frame_count"`
	HandX           float64    `json:"hand_x"`
	HandY           float64    `json:"hand_y"`
	HandZ           float64    `json:"hand_z"`
	DetectionTimeMs float64    `json:"detection_time_ms"`
	FPS             float64    `json:"fps"`
	Timestamp       time.Time  `json:"timestamp"`
}

// Sink delivers one record to a downstream consumer.
type Sink interface {
	Name() string
	Deliver(rec Record) error
	Close() error
}

// queueSize bounds the emitter backlog. When sinks fall this far behind,
// further records are dropped rather than queued without bound; analytics
// may lose events, the pipeline never stalls.
const queueSize = 64

// Emitter fans records out to a set of sinks on a single worker goroutine.
type Emitter struct {
	sinks   []Sink
	queue   chan Record
	done    chan struct{}
	onError func(sink string, err error)
}

// NewEmitter creates an emitter over the given sinks and starts its worker.
func NewEmitter(sinks ...Sink) *Emitter {
	e := &Emitter{
		sinks: sinks,
		queue: make(chan Record, queueSize),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

// OnError sets an optional callback invoked for each failed delivery, in
// addition to logging. Used to feed the delivery error metric.
func (e *Emitter) OnError(fn func(sink string, err error)) {
	e.onError = fn
}

// Emit queues a record for delivery and returns immediately. When the
// queue is full the record is dropped.
func (e *Emitter) Emit(rec Record) {
	select {
	case e.queue <- rec:
	default:
		log.Printf("delivery queue full, dropping event %s", rec.ID)
	}
}

func (e *Emitter) run() {
	for {
		select {
		case <-e.done:
			return
		case rec := <-e.queue:
			for _, sink := range e.sinks {
				if err := sink.Deliver(rec); err != nil {
					werr := engine.E(engine.KindDelivery, err)
					log.Printf("deliver %s via %s: %v", rec.ID, sink.Name(), werr)
					if e.onError != nil {
						e.onError(sink.Name(), werr)
					}
				}
			}
		}
	}
}

// Close stops the worker and closes every sink. Queued but undelivered
// records are discarded.
func (e *Emitter) Close() error {
	close(e.done)

	var firstErr error
	for _, sink := range e.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
