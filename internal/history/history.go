// Package history keeps the bounded in-memory log of detection records.
// The processing loop is the only writer; readers always receive an
// immutable snapshot.
package history

import (
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the record limit used when none is configured.
const DefaultCapacity = 1000

// Box is a bounding box in frame coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoxFromRect converts an image.Rectangle to a Box.
func BoxFromRect(r image.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect converts the Box back to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Record is one detection: a labeled region with its numeric score,
// produced by a monitoring module for a single frame.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	Area      float64   `json:"area"`
	Box       Box       `json:"box"`
}

// NewRecord builds a Record with a fresh ID and the current time.
// The timestamp is assigned here, at append time, not when the region
// was extracted.
func NewRecord(module, label string, value, area float64, box Box) Record {
	return Record{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Module:    module,
		Label:     label,
		Value:     value,
		Area:      area,
		Box:       box,
	}
}

// History is a bounded append-only record log. When the capacity is
// reached the oldest record is evicted.
type History struct {
	records  []Record
	capacity int
	mu       sync.Mutex
}

// New creates a History with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &History{
		records:  make([]Record, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a record, evicting the oldest one when full.
func (h *History) Append(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) >= h.capacity {
		copy(h.records, h.records[1:])
		h.records = h.records[:h.capacity-1]
	}
	h.records = append(h.records, r)
}

// Snapshot returns a copy of the current records in append order.
func (h *History) Snapshot() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of records currently held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// Clear discards all records.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = h.records[:0]
}
