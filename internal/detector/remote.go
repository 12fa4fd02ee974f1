package detector

import (
	"fmt"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pebbe/zmq4"
	"gocv.io/x/gocv"
)

// maxLandmarkAge is how long a received landmark set stays usable. Older
// messages are treated as "no hand" so a stalled remote detector cannot
// keep a stale pose alive.
const maxLandmarkAge = 250 * time.Millisecond

// RemoteDetector receives hand landmarks from an out-of-process detector
// over a ZeroMQ PULL socket. The remote side runs its own capture loop and
// pushes one CBOR message per processed frame:
//
//	{ "type": "hand", "hands": [ { "points": [{"x":..,"y":..,"z":..} x21],
//	  "handedness": "Right", "score": 0.97 } ], "ts": <unix millis> }
//
// Detect ignores the frame argument and returns the most recent message if
// it is still fresh; the local camera frame only paces the pipeline.
type RemoteDetector struct {
	socket *zmq4.Socket

	mu         sync.Mutex
	latest     []HandLandmarks
	receivedAt time.Time
	closed     bool
}

// NewRemoteDetector connects to the given ZeroMQ endpoint (for example
// "tcp://127.0.0.1:5556") and starts receiving landmark messages.
func NewRemoteDetector(endpoint string) (*RemoteDetector, error) {
	socket, err := zmq4.NewSocket(zmq4.PULL)
	if err != nil {
		return nil, fmt.Errorf("create socket: %w", err)
	}
	if err := socket.Connect(endpoint); err != nil {
		socket.Close()
		return nil, fmt.Errorf("connect %s: %w", endpoint, err)
	}

	d := &RemoteDetector{socket: socket}
	go d.receive()
	return d, nil
}

func (d *RemoteDetector) receive() {
	for {
		msg, err := d.socket.RecvBytes(0)
		if err != nil {
			d.mu.Lock()
			closed := d.closed
			d.mu.Unlock()
			if closed {
				return
			}
			continue
		}

		hands, ok := decodeHandMessage(msg)
		if !ok {
			continue
		}

		d.mu.Lock()
		d.latest = hands
		d.receivedAt = time.Now()
		d.mu.Unlock()
	}
}

// Detect returns the most recently received landmarks, or an empty slice if
// nothing fresh has arrived. The frame argument is unused.
func (d *RemoteDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if time.Since(d.receivedAt) > maxLandmarkAge {
		return nil, nil
	}
	return d.latest, nil
}

// Close shuts down the socket and stops the receive loop.
func (d *RemoteDetector) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.socket.Close()
}

// wire types for the CBOR landmark message

type wireHandMessage struct {
	Type  string     `cbor:"type"`
	Hands []wireHand `cbor:"hands"`
	TS    int64      `cbor:"ts"`
}

type wireHand struct {
	Points     []wirePoint `cbor:"points"`
	Handedness string      `cbor:"handedness"`
	Score      float64     `cbor:"score"`
}

type wirePoint struct {
	X float64 `cbor:"x"`
	Y float64 `cbor:"y"`
	Z float64 `cbor:"z"`
}

// decodeHandMessage parses one CBOR message. Messages of other types or
// with malformed hands are skipped, not fatal.
func decodeHandMessage(msg []byte) ([]HandLandmarks, bool) {
	var payload wireHandMessage
	if err := cbor.Unmarshal(msg, &payload); err != nil {
		return nil, false
	}
	if payload.Type != "hand" {
		return nil, false
	}

	hands := make([]HandLandmarks, 0, len(payload.Hands))
	for _, h := range payload.Hands {
		if len(h.Points) < NumLandmarks {
			continue
		}
		lm := HandLandmarks{
			Handedness: h.Handedness,
			Score:      h.Score,
		}
		for i := 0; i < NumLandmarks; i++ {
			lm.Points[i] = Point3D{X: h.Points[i].X, Y: h.Points[i].Y, Z: h.Points[i].Z}
		}
		hands = append(hands, lm)
	}

	return hands, true
}
