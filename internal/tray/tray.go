// Package tray provides the system tray control surface for Zentrol.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu. It exposes a pause toggle, shows the active
// profile and last fired gesture, and links to the dashboard.
type Tray struct {
	profile    string
	onToggle   func(enabled bool)
	onDash     func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuLastFire *systray.MenuItem
}

// New creates a new Tray instance with detection enabled by default.
// profile is the name of the active detection profile, shown read-only
// in the menu.
func New(profile string) *Tray {
	return &Tray{
		profile: profile,
		enabled: true,
	}
}

// OnToggle sets the callback invoked when detection is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback invoked when the dashboard item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDash = fn
}

// OnQuit sets the callback invoked when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure once the tray is available.
func (t *Tray) onReady() {
	systray.SetTitle("Zentrol")
	systray.SetTooltip("Zentrol Gesture Control")

	t.menuToggle = systray.AddMenuItem("● Detecting", "Pause or resume gesture detection")
	systray.AddSeparator()

	menuProfile := systray.AddMenuItem("Profile: "+t.profile, "Active detection profile")
	menuProfile.Disable()

	t.menuLastFire = systray.AddMenuItem("Last: none", "Last fired gesture")
	t.menuLastFire.Disable()
	systray.AddSeparator()

	menuDash := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Zentrol")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDash.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle flips the enabled state and updates the menu text.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Detecting")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDash
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastFired updates the last fired gesture shown in the menu.
func (t *Tray) SetLastFired(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastFire != nil {
		if name == "" {
			t.menuLastFire.SetTitle("Last: none")
		} else {
			t.menuLastFire.SetTitle("Last: " + name)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
