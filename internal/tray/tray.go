// Package tray provides a system tray interface for the mine
// monitoring service.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle     func(enabled bool)
	onNextModule func() string
	onDashboard  func()
	onQuit       func()
	enabled      bool
	mu           sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuModule    *systray.MenuItem
	menuLastAlert *systray.MenuItem
}

// New creates a new Tray instance with monitoring enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when monitoring is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnNextModule sets the callback invoked when the module cycle item is
// clicked. The callback returns the name of the newly active module.
func (t *Tray) OnNextModule(fn func() string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNextModule = fn
}

// OnDashboard sets the callback invoked when the dashboard item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
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
	systray.SetTitle("Minewatch")
	systray.SetTooltip("Minewatch Site Monitor")

	t.menuToggle = systray.AddMenuItem("● Monitoring", "Toggle monitoring")
	systray.AddSeparator()

	t.menuModule = systray.AddMenuItem("Module: ore", "Switch to the next analysis module")
	t.menuLastAlert = systray.AddMenuItem("Last alert: none", "Most recent alert")
	t.menuLastAlert.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Minewatch")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuModule.ClickedCh:
				t.handleNextModule()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Monitoring")
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

func (t *Tray) handleNextModule() {
	t.mu.RLock()
	callback := t.onNextModule
	item := t.menuModule
	t.mu.RUnlock()

	if callback == nil {
		return
	}

	name := callback()
	if item != nil {
		item.SetTitle("Module: " + name)
	}
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
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

// SetLastAlert updates the last alert display in the menu.
func (t *Tray) SetLastAlert(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastAlert != nil {
		t.menuLastAlert.SetTitle("Last alert: " + text)
	}
}
