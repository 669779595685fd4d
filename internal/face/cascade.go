package face

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"

	"minewatch/internal/vision"
)

// cascadeFileName is the OpenCV frontal face Haar cascade.
const cascadeFileName = "haarcascade_frontalface_default.xml"

// CascadeDetector implements Detector with an OpenCV Haar cascade.
type CascadeDetector struct {
	config     Config
	classifier gocv.CascadeClassifier
	mu         sync.Mutex
	closed     bool
}

// NewCascadeDetector creates a CascadeDetector, loading the cascade
// from config.CascadePath or from common OpenCV install locations.
func NewCascadeDetector(config Config) (*CascadeDetector, error) {
	path := config.CascadePath
	if path == "" {
		path = findCascadeFile()
	}
	if path == "" {
		return nil, fmt.Errorf("%s not found", cascadeFileName)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("load cascade %s failed", path)
	}

	if config.ScaleFactor <= 1 {
		config.ScaleFactor = DefaultConfig().ScaleFactor
	}
	if config.MinNeighbors <= 0 {
		config.MinNeighbors = DefaultConfig().MinNeighbors
	}

	return &CascadeDetector{
		config:     config,
		classifier: classifier,
	}, nil
}

// Detect returns the bounding boxes of faces found in the frame.
func (d *CascadeDetector) Detect(frame *gocv.Mat) ([]image.Rectangle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("detector is closed")
	}

	gray, err := vision.ToGray(frame)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	faces := d.classifier.DetectMultiScaleWithParams(
		gray,
		d.config.ScaleFactor,
		d.config.MinNeighbors,
		0,
		image.Pt(0, 0),
		image.Pt(0, 0),
	)

	return faces, nil
}

// Close releases the cascade classifier.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.classifier.Close()
}

// findCascadeFile searches common OpenCV data directories for the
// frontal face cascade.
func findCascadeFile() string {
	candidates := []string{
		"/usr/share/opencv4/haarcascades/" + cascadeFileName,
		"/usr/local/share/opencv4/haarcascades/" + cascadeFileName,
		"/opt/homebrew/share/opencv4/haarcascades/" + cascadeFileName,
		filepath.Join(os.Getenv("HOME"), ".minewatch", cascadeFileName),
		cascadeFileName,
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
