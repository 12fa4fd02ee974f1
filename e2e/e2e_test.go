package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/coder-dipesh/zentrol/internal/action"
	"github.com/coder-dipesh/zentrol/internal/app"
	"github.com/coder-dipesh/zentrol/internal/capture"
	"github.com/coder-dipesh/zentrol/internal/delivery"
	"github.com/coder-dipesh/zentrol/internal/detector"
	"github.com/coder-dipesh/zentrol/internal/engine"
	"github.com/coder-dipesh/zentrol/internal/pose"
	"github.com/coder-dipesh/zentrol/internal/server"
	"github.com/coder-dipesh/zentrol/internal/store"
)

// recordingSender captures keystrokes the pipeline would send.
type recordingSender struct {
	keys chan string
}

func (s *recordingSender) SendKey(key string) error {
	s.keys <- key
	return nil
}

func TestE2E_GestureToSlideControl(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	st, err := store.New(filepath.Join(tmpDir, "zentrol.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	srv := server.New(server.Config{Store: st})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	sessionID := "e2e-session"
	if err := st.Sessions().Create(&store.Session{
		ID:        sessionID,
		SessionID: sessionID,
	}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	emitter := delivery.NewEmitter(delivery.NewStoreSink(st))
	defer emitter.Close()

	sender := &recordingSender{keys: make(chan string, 4)}

	application := app.New(app.Config{
		SessionID:    sessionID,
		MotionThresh: 0.5,
		Emitter:      emitter,
		Actions:      action.NewController(sender),
	})

	// Alternating frames keep the motion gate open; the mock detector
	// holds a steady point-up hand.
	dark := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(220, 220, 220, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer bright.Close()
	application.SetCamera(capture.NewMockCamera([]*gocv.Mat{&dark, &bright}, true))

	mockDetector := detector.NewMockDetector()
	mockDetector.SetHands([]detector.HandLandmarks{detector.PointUpLandmarks()})
	application.SetDetector(mockDetector)

	application.RegisterListener(srv.Hub().Broadcast)

	events := make(chan engine.Event, 4)
	application.RegisterListener(func(ev engine.Event, _ engine.PerfSnapshot) {
		events <- ev
	})

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()
	application.SetEnabled(true)

	var fired engine.Event

	t.Run("GestureFires", func(t *testing.T) {
		select {
		case fired = <-events:
		case <-time.After(10 * time.Second):
			t.Fatal("no gesture fired")
		}
		if fired.Pose != pose.PointUp {
			t.Errorf("fired pose = %q, want point_up", fired.Pose)
		}
		if fired.Confidence < 0.88 {
			t.Errorf("confidence = %f, want >= 0.88", fired.Confidence)
		}
	})

	t.Run("ActionExecuted", func(t *testing.T) {
		select {
		case key := <-sender.keys:
			if key != "right" {
				t.Errorf("sent key = %q, want right", key)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("no keystroke sent")
		}
	})

	t.Run("EventPersisted", func(t *testing.T) {
		// Delivery is asynchronous; poll the API until the log lands.
		deadline := time.Now().Add(5 * time.Second)
		for {
			resp, err := client.Get(ts.URL + "/api/logs?session_id=" + sessionID)
			if err != nil {
				t.Fatalf("list logs error = %v", err)
			}

			var body struct {
				Logs []struct {
					Gesture    string  `json:"gesture_type"`
					Confidence float64 `json:"confidence"`
				} `json:"logs"`
			}
			err = json.NewDecoder(resp.Body).Decode(&body)
			resp.Body.Close()
			if err != nil {
				t.Fatalf("decode logs: %v", err)
			}

			if len(body.Logs) > 0 {
				if body.Logs[0].Gesture != "point_up" {
					t.Errorf("logged gesture = %q, want point_up", body.Logs[0].Gesture)
				}
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("gesture log never persisted")
			}
			time.Sleep(50 * time.Millisecond)
		}
	})

	t.Run("StatsAggregate", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID + "/stats")
		if err != nil {
			t.Fatalf("stats error = %v", err)
		}
		defer resp.Body.Close()

		var stats struct {
			TotalGestures int            `json:"total_gestures"`
			GestureTypes  map[string]int `json:"gesture_types"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.TotalGestures < 1 {
			t.Errorf("total_gestures = %d, want >= 1", stats.TotalGestures)
		}
		if stats.GestureTypes["point_up"] < 1 {
			t.Errorf("gesture_types = %v, want point_up counted", stats.GestureTypes)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after pipeline run")
		}
	})
}

func TestE2E_DisabledPipelineStaysQuiet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	application := app.New(app.Config{SessionID: "quiet", MotionThresh: 0.5})

	dark := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(220, 220, 220, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer bright.Close()
	application.SetCamera(capture.NewMockCamera([]*gocv.Mat{&dark, &bright}, true))

	mockDetector := detector.NewMockDetector()
	mockDetector.SetHands([]detector.HandLandmarks{detector.VictoryLandmarks()})
	application.SetDetector(mockDetector)

	events := make(chan engine.Event, 1)
	application.RegisterListener(func(ev engine.Event, _ engine.PerfSnapshot) {
		events <- ev
	})

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()
	// Detection left disabled: frames must be ignored entirely.

	select {
	case ev := <-events:
		t.Fatalf("disabled pipeline fired %q", ev.Pose)
	case <-time.After(2 * time.Second):
	}
}
