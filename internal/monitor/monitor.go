// Package monitor orchestrates the capture and classification pipeline
// for a mining site camera feed.
package monitor

import (
	"log"
	"sync"
	"time"

	"minewatch/internal/alert"
	"minewatch/internal/capture"
	"minewatch/internal/config"
	"minewatch/internal/face"
	"minewatch/internal/history"
	"minewatch/internal/store"
	"minewatch/internal/vision"
)

// Module identifies one analysis mode of the monitor.
type Module string

// Available analysis modules.
const (
	ModuleOre         Module = "ore"
	ModuleSafety      Module = "safety"
	ModuleEquipment   Module = "equipment"
	ModuleEnvironment Module = "environment"
	ModuleMotion      Module = "motion"
)

// ModuleOrder is the cycle order used by the tray menu.
var ModuleOrder = []Module{ModuleOre, ModuleSafety, ModuleEquipment, ModuleEnvironment, ModuleMotion}

// Config holds the dependencies of a Monitor. Camera and Faces may be
// nil, in which case they are built from Settings.
type Config struct {
	Settings config.Config
	Store    *store.Store
	Camera   capture.Camera
	Faces    face.Detector
}

// Monitor runs the frame pipeline: capture, extract, classify, record.
type Monitor struct {
	settings config.Config
	store    *store.Store
	camera   capture.Camera
	faces    face.Detector
	motion   *vision.MotionExtractor
	hooks    *alert.Manager
	hookExec *alert.Executor
	hist     *history.History

	// Bounded logs of the most recent violations and alerts, separate
	// from the detection history so bursts of ore records cannot evict
	// them.
	violations *history.History
	alerts     *history.History

	onRecord func(history.Record)
	onAlert  func(kind, detail string)

	mu           sync.RWMutex
	enabled      bool
	module       Module
	stopCh       chan struct{}
	lastEvent    map[string]time.Time
	motionActive bool
	latestJPEG   []byte
}

// New creates a Monitor from the given configuration.
func New(cfg Config) *Monitor {
	m := &Monitor{
		settings:   cfg.Settings,
		store:      cfg.Store,
		camera:     cfg.Camera,
		faces:      cfg.Faces,
		hooks:      alert.NewManager(cfg.Settings.HookDir),
		hookExec:   alert.NewExecutor(cfg.Settings.HookTimeoutMs),
		hist:       history.New(cfg.Settings.HistoryLimit),
		violations: history.New(cfg.Settings.ViolationLimit),
		alerts:     history.New(cfg.Settings.AlertLimit),
		module:     ModuleOre,
		lastEvent:  make(map[string]time.Time),
	}

	m.motion = vision.NewMotionExtractor(
		cfg.Settings.Sensitivity,
		cfg.Settings.MinMotionArea,
		cfg.Settings.BackgroundRefresh,
	)

	if m.camera == nil {
		if cfg.Settings.ImagePath != "" {
			m.camera = capture.NewImageSource(cfg.Settings.ImagePath)
		} else {
			m.camera = capture.NewCameraWithSize(
				cfg.Settings.CameraID,
				cfg.Settings.FrameWidth,
				cfg.Settings.FrameHeight,
			)
		}
	}

	// Try the Haar cascade first, fall back to the mock detector.
	if m.faces == nil {
		if d, err := face.NewCascadeDetector(face.DefaultConfig()); err == nil {
			m.faces = d
			log.Println("Using Haar cascade face detection")
		} else {
			log.Printf("Face cascade not available (%v), using mock detector", err)
			m.faces = face.NewMockDetector()
		}
	}

	return m
}

// SetEnabled enables or disables frame processing.
func (m *Monitor) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// IsEnabled returns whether frame processing is currently enabled.
func (m *Monitor) IsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Module returns the active analysis module.
func (m *Monitor) Module() Module {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.module
}

// SetModule switches the active analysis module.
func (m *Monitor) SetModule(module Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.module == module {
		return
	}
	m.module = module
	m.motionActive = false
	m.motion.Reset()
}

// CycleModule advances to the next module in ModuleOrder and returns it.
func (m *Monitor) CycleModule() Module {
	current := m.Module()
	for i, mod := range ModuleOrder {
		if mod == current {
			next := ModuleOrder[(i+1)%len(ModuleOrder)]
			m.SetModule(next)
			return next
		}
	}
	m.SetModule(ModuleOrder[0])
	return ModuleOrder[0]
}

// OnRecord registers a callback invoked for every emitted record.
// It must be set before Start.
func (m *Monitor) OnRecord(fn func(history.Record)) {
	m.onRecord = fn
}

// OnAlert registers a callback invoked for every violation or alert.
// It must be set before Start.
func (m *Monitor) OnAlert(fn func(kind, detail string)) {
	m.onAlert = fn
}

// History returns the in-memory record log.
func (m *Monitor) History() *history.History {
	return m.hist
}

// Violations returns the in-memory log of recent safety violations.
func (m *Monitor) Violations() *history.History {
	return m.violations
}

// Alerts returns the in-memory log of recent alerts.
func (m *Monitor) Alerts() *history.History {
	return m.alerts
}

// Hooks returns the alert hook manager.
func (m *Monitor) Hooks() *alert.Manager {
	return m.hooks
}

// Camera returns the frame source.
func (m *Monitor) Camera() capture.Camera {
	return m.camera
}

// DiscoverHooks scans the hook directory for alert hooks.
func (m *Monitor) DiscoverHooks() error {
	return m.hooks.Discover()
}

// LatestFrameJPEG returns the most recent captured frame encoded as
// JPEG, or nil if no frame has been processed yet.
func (m *Monitor) LatestFrameJPEG() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestJPEG
}

// Start opens the camera and begins the processing loop.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopCh != nil {
		return nil
	}

	if err := m.camera.Open(); err != nil {
		return err
	}
	m.camera.SetFPS(m.settings.FPS)

	m.stopCh = make(chan struct{})
	go m.runLoop(m.stopCh)

	log.Println("Monitoring pipeline started")
	return nil
}

// Stop halts the processing loop and releases resources.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}

	if err := m.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	m.motion.Close()

	if m.faces != nil {
		if err := m.faces.Close(); err != nil {
			log.Printf("Error closing face detector: %v", err)
		}
	}

	log.Println("Monitoring pipeline stopped")
}

// eventAllowed reports whether an event of the given kind may fire,
// honoring the per-kind cooldown, and records the firing time.
func (m *Monitor) eventAllowed(kind string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cooldown := time.Duration(m.settings.ViolationCooldownSec) * time.Second
	if last, ok := m.lastEvent[kind]; ok && time.Since(last) < cooldown {
		return false
	}

	m.lastEvent[kind] = time.Now()
	return true
}
