// Package face provides face presence detection for the safety monitor.
package face

import (
	"image"

	"gocv.io/x/gocv"
)

// Detector defines the interface for face detection implementations.
type Detector interface {
	// Detect analyzes a frame and returns the bounding boxes of detected
	// faces. Returns an empty slice if no faces are found.
	Detect(frame *gocv.Mat) ([]image.Rectangle, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face detection.
type Config struct {
	// ScaleFactor is the image pyramid scale step (default: 1.1).
	ScaleFactor float64

	// MinNeighbors is the number of neighbor rectangles a candidate
	// needs to be retained (default: 4).
	MinNeighbors int

	// CascadePath is an explicit path to the Haar cascade file.
	// When empty, common install locations are searched.
	CascadePath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ScaleFactor:  1.1,
		MinNeighbors: 4,
	}
}
