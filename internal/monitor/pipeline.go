package monitor

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"minewatch/internal/alert"
	"minewatch/internal/capture"
	"minewatch/internal/classify"
	"minewatch/internal/history"
	"minewatch/internal/store"
	"minewatch/internal/vision"
)

// runLoop is the main processing loop. Each tick reads one frame and
// runs it through the active module:
//
//	ore          color-range extraction against the ore table
//	safety       face detection plus helmet check above each face
//	equipment    edge-based region extraction plus defect rules
//	environment  whole-frame dust count and gas heuristic
//	motion       background subtraction, edge-triggered events
func (m *Monitor) runLoop(stopCh chan struct{}) {
	fps := m.settings.FPS
	if fps <= 0 {
		fps = capture.DefaultFPS
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !m.IsEnabled() {
				continue
			}

			frame, err := m.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			m.processFrame(frame)
			frame.Close()
		}
	}
}

func (m *Monitor) processFrame(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}

	if m.settings.Mirror {
		gocv.Flip(*frame, frame, 1)
	}

	m.updateLatestJPEG(frame)

	switch m.Module() {
	case ModuleOre:
		m.processOre(frame)
	case ModuleSafety:
		m.processSafety(frame)
	case ModuleEquipment:
		m.processEquipment(frame)
	case ModuleEnvironment:
		m.processEnvironment(frame)
	case ModuleMotion:
		m.processMotion(frame)
	}
}

func (m *Monitor) updateLatestJPEG(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}
	defer buf.Close()

	encoded := append([]byte(nil), buf.GetBytes()...)

	m.mu.Lock()
	m.latestJPEG = encoded
	m.mu.Unlock()
}

func (m *Monitor) processOre(frame *gocv.Mat) {
	for _, class := range m.settings.OreTable {
		regions := vision.ExtractColorRegions(frame, class.Range, m.settings.MinOreArea)
		for _, r := range regions {
			rec := history.NewRecord(
				string(ModuleOre), class.Name,
				classify.OreValue(class, r.Area), r.Area,
				history.BoxFromRect(r.Box),
			)
			m.emit(rec)
		}
	}
}

func (m *Monitor) processSafety(frame *gocv.Mat) {
	faces, err := m.faces.Detect(frame)
	if err != nil {
		log.Printf("Error detecting faces: %v", err)
		return
	}

	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())

	for _, f := range faces {
		// The helmet sits in the band directly above the face.
		band := image.Rect(f.Min.X, f.Min.Y-f.Dy()/2, f.Max.X, f.Min.Y).Intersect(bounds)

		label := classify.LabelViolation
		ratio := 0.0
		if !band.Empty() {
			roi := frame.Region(band)
			label, ratio = classify.CheckHelmet(&roi, m.settings.Helmet)
			roi.Close()
		}

		if !m.eventAllowed(label) {
			continue
		}

		area := float64(f.Dx() * f.Dy())
		rec := history.NewRecord(string(ModuleSafety), label, ratio, area, history.BoxFromRect(f))
		m.emit(rec)

		if label == classify.LabelViolation {
			m.violations.Append(rec)
			if m.store != nil {
				v := store.Violation{
					ID:        uuid.New().String(),
					Timestamp: rec.Timestamp,
					Kind:      label,
					Box:       rec.Box,
				}
				if err := m.store.Violations().Insert(v); err != nil {
					log.Printf("Error storing violation: %v", err)
				}
			}
			m.dispatch(label, "helmet check failed", &rec)
		}
	}
}

func (m *Monitor) processEquipment(frame *gocv.Mat) {
	regions := vision.ExtractEdgeRegions(frame, m.settings.MinEquipmentArea)

	for _, r := range regions {
		roi := frame.Region(r.Box)
		label, ratio := classify.AssessEquipment(&roi, m.settings.EquipmentRules)
		roi.Close()

		if label == classify.LabelEquipmentOK {
			continue
		}
		if !m.eventAllowed(label) {
			continue
		}

		rec := history.NewRecord(string(ModuleEquipment), label, ratio, r.Area, history.BoxFromRect(r.Box))
		m.emit(rec)
		m.recordAlert(label, fmt.Sprintf("pixel ratio %.3f", ratio), ratio, &rec)
	}
}

func (m *Monitor) processEnvironment(frame *gocv.Mat) {
	dust, gas := classify.AssessEnvironment(frame, m.settings.Environment)

	if m.eventAllowed(classify.LabelDustLevel) {
		rec := history.NewRecord(string(ModuleEnvironment), classify.LabelDustLevel, float64(dust), 0, history.Box{})
		m.emit(rec)
	}

	if gas && m.eventAllowed(classify.LabelGasDetected) {
		hue, sat, _ := vision.MeanHSV(frame)
		rec := history.NewRecord(string(ModuleEnvironment), classify.LabelGasDetected, hue, 0, history.Box{})
		m.emit(rec)
		m.recordAlert(classify.LabelGasDetected, fmt.Sprintf("mean hue %.1f, saturation %.1f", hue, sat), hue, &rec)
	}
}

func (m *Monitor) processMotion(frame *gocv.Mat) {
	regions := m.motion.Extract(frame)

	m.mu.Lock()
	wasActive := m.motionActive
	m.motionActive = len(regions) > 0
	m.mu.Unlock()

	// Only the rising edge produces events, continuous motion does not
	// retrigger until the scene goes still again.
	if wasActive || len(regions) == 0 {
		return
	}

	var first history.Record
	for i, r := range regions {
		rec := history.NewRecord(string(ModuleMotion), classify.LabelMotion, 0, r.Area, history.BoxFromRect(r.Box))
		m.emit(rec)
		if i == 0 {
			first = rec
		}
	}

	m.dispatch(classify.LabelMotion, fmt.Sprintf("%d moving regions", len(regions)), &first)
}

// emit appends a record to the in-memory history, persists it and
// notifies the record callback.
func (m *Monitor) emit(rec history.Record) {
	m.hist.Append(rec)

	if m.store != nil {
		if err := m.store.Detections().Insert(rec); err != nil {
			log.Printf("Error storing detection: %v", err)
		}
	}

	if m.onRecord != nil {
		m.onRecord(rec)
	}
}

// recordAlert logs an alert, persists it and dispatches it to the hooks.
func (m *Monitor) recordAlert(kind, detail string, value float64, rec *history.Record) {
	m.alerts.Append(*rec)

	if m.store != nil {
		a := store.Alert{
			ID:        uuid.New().String(),
			Timestamp: rec.Timestamp,
			Kind:      kind,
			Detail:    detail,
			Value:     value,
		}
		if err := m.store.Alerts().Insert(a); err != nil {
			log.Printf("Error storing alert: %v", err)
		}
	}

	m.dispatch(kind, detail, rec)
}

// dispatch notifies the alert callback and delivers an event to the
// subscribed hooks without blocking the pipeline.
func (m *Monitor) dispatch(kind, detail string, rec *history.Record) {
	if m.onAlert != nil {
		m.onAlert(kind, detail)
	}

	event := &alert.Event{
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Record:    rec,
		Detail:    detail,
	}
	go m.hookExec.Dispatch(m.hooks, event)
}
