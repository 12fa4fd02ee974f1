package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/coder-dipesh/zentrol/internal/action"
	"github.com/coder-dipesh/zentrol/internal/app"
	"github.com/coder-dipesh/zentrol/internal/delivery"
	"github.com/coder-dipesh/zentrol/internal/detector"
	"github.com/coder-dipesh/zentrol/internal/engine"
	"github.com/coder-dipesh/zentrol/internal/metrics"
	"github.com/coder-dipesh/zentrol/internal/server"
	"github.com/coder-dipesh/zentrol/internal/store"
	"github.com/coder-dipesh/zentrol/internal/tray"
)

func main() {
	var (
		profileName  = flag.String("profile", "balanced", "detection profile: high-accuracy, responsive or balanced")
		cameraID     = flag.Int("camera", 0, "camera device index")
		addr         = flag.String("addr", ":8080", "HTTP listen address")
		dbPath       = flag.String("db", "", "SQLite database path (default ~/.zentrol/zentrol.db)")
		staticDir    = flag.String("static", "", "static files directory (default: auto-detect web/)")
		kafkaBrokers = flag.String("kafka-brokers", "", "comma-separated Kafka brokers; empty disables Kafka delivery")
		kafkaTopic   = flag.String("kafka-topic", "zentrol.gestures", "Kafka topic for gesture events")
		mqttBroker   = flag.String("mqtt-broker", "", "MQTT broker URL; empty disables MQTT delivery")
		mqttTopic    = flag.String("mqtt-topic", "zentrol/gestures", "MQTT topic for gesture events")
		zmqEndpoint  = flag.String("zmq-endpoint", "", "ZeroMQ landmark source endpoint; empty uses the local detector")
		journalPath  = flag.String("journal", "", "append fired events to this binary journal file")
		hookCmd      = flag.String("hook", "", "run this command with the event JSON on stdin for every fired gesture")
		noTray       = flag.Bool("no-tray", false, "run headless without the system tray")
		noActions    = flag.Bool("no-actions", false, "log gestures without sending keystrokes")
		accessLog    = flag.Bool("access-log", false, "log HTTP requests to stdout")
	)
	flag.Parse()

	fmt.Println("Zentrol - Gesture Slide Control")

	profile, err := engine.ProfileByName(*profileName)
	if err != nil {
		log.Fatalf("Invalid profile: %v", err)
	}

	// Initialize the store
	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir := filepath.Join(homeDir, ".zentrol")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dataDir, "zentrol.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	m := metrics.New()

	// Delivery sinks: the store sink is always on, the rest are opt-in.
	sinks := []delivery.Sink{delivery.NewStoreSink(st)}

	if *kafkaBrokers != "" {
		sinks = append(sinks, delivery.NewKafkaSink(strings.Split(*kafkaBrokers, ","), *kafkaTopic))
		log.Printf("Kafka delivery enabled (%s -> %s)", *kafkaBrokers, *kafkaTopic)
	}
	if *mqttBroker != "" {
		mqttSink, err := delivery.NewMQTTSink(*mqttBroker, "zentrol", *mqttTopic)
		if err != nil {
			log.Fatalf("Failed to connect MQTT sink: %v", err)
		}
		sinks = append(sinks, mqttSink)
		log.Printf("MQTT delivery enabled (%s -> %s)", *mqttBroker, *mqttTopic)
	}
	if *journalPath != "" {
		journal, err := delivery.NewJournalSink(*journalPath)
		if err != nil {
			log.Fatalf("Failed to open journal: %v", err)
		}
		sinks = append(sinks, journal)
	}
	if *hookCmd != "" {
		sinks = append(sinks, delivery.NewHookSink(*hookCmd, nil, 5*time.Second))
	}

	emitter := delivery.NewEmitter(sinks...)
	defer emitter.Close()
	emitter.OnError(func(sink string, err error) {
		m.DeliveryErrors.WithLabelValues(sink).Inc()
	})

	var actions *action.Controller
	if !*noActions {
		actions = action.NewController(action.NewRobotgoSender())
	}

	application := app.New(app.Config{
		Profile:  profile,
		CameraID: *cameraID,
		Emitter:  emitter,
		Actions:  actions,
		Metrics:  m,
	})

	if *zmqEndpoint != "" {
		remote, err := detector.NewRemoteDetector(*zmqEndpoint)
		if err != nil {
			log.Fatalf("Failed to connect landmark source %s: %v", *zmqEndpoint, err)
		}
		application.SetDetector(remote)
		log.Printf("Using remote landmark source at %s", *zmqEndpoint)
	}

	// Register the session so logs aggregate under it.
	if err := st.Sessions().Create(&store.Session{
		ID:        application.SessionID(),
		SessionID: application.SessionID(),
	}); err != nil {
		log.Printf("Failed to register session: %v", err)
	}

	webDir := *staticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    application.Camera(),
		Metrics:   m,
		AccessLog: *accessLog,
	})
	application.RegisterListener(srv.Hub().Broadcast)

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	application.SetEnabled(true)

	if *noTray {
		// Headless mode: block until killed.
		select {}
	}

	t := tray.New(profile.Name)
	t.OnToggle(application.SetEnabled)
	t.OnDashboard(func() {
		openBrowser("http://localhost" + *addr)
	})
	t.OnQuit(func() {
		application.Stop()
		if err := st.Sessions().End(application.SessionID()); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
	})
	application.RegisterListener(func(ev engine.Event, _ engine.PerfSnapshot) {
		t.SetLastFired(string(ev.Pose))
	})

	t.Run()
}

// openBrowser opens the URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".zentrol", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
