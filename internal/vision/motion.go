package vision

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion extraction constants.
const (
	// MotionBlurSize is the kernel size for Gaussian blur (21x21).
	MotionBlurSize = 21
	// MorphKernelSize is the size of the elliptical structuring element
	// used for speckle suppression (3x3).
	MorphKernelSize = 3
)

// MotionExtractor detects moving regions by differencing the current
// grayscale frame against a background reference frame. The reference is
// replaced by the current frame every refreshEvery processed frames so
// the extractor adapts to slow lighting drift. This is the pipeline's
// only cross-frame state.
type MotionExtractor struct {
	sensitivity  float64
	minArea      float64
	refreshEvery int

	background  gocv.Mat
	initialized bool
	frameCount  int
	mu          sync.Mutex
}

// NewMotionExtractor creates a MotionExtractor.
// sensitivity is the binary threshold applied to the frame difference,
// minArea the smallest region area emitted, and refreshEvery the number
// of processed frames between background reference replacements.
func NewMotionExtractor(sensitivity, minArea float64, refreshEvery int) *MotionExtractor {
	if refreshEvery <= 0 {
		refreshEvery = 30
	}

	return &MotionExtractor{
		sensitivity:  sensitivity,
		minArea:      minArea,
		refreshEvery: refreshEvery,
		background:   gocv.NewMat(),
	}
}

// Extract returns the moving regions in the frame.
//
// Algorithm:
// 1. Convert frame to grayscale
// 2. Apply Gaussian blur (21x21) to reduce noise
// 3. If first frame, store as background reference and return nothing
// 4. Absolute difference with the reference frame
// 5. Binary threshold at the configured sensitivity
// 6. Morphological opening then closing with a 3x3 elliptical kernel
// 7. Connected components, filtered by minimum area
//
// An empty or corrupt frame yields an empty result.
func (m *MotionExtractor) Extract(frame *gocv.Mat) []Region {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return nil
	}

	gray, err := ToGray(frame)
	if err != nil {
		return nil
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(MotionBlurSize, MotionBlurSize), 0, 0, gocv.BorderDefault)

	if !m.initialized {
		blurred.CopyTo(&m.background)
		m.initialized = true
		return nil
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.background, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, float32(m.sensitivity), 255, gocv.ThresholdBinary)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(MorphKernelSize, MorphKernelSize))
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(thresh, &opened, gocv.MorphOpen, kernel)

	cleaned := gocv.NewMat()
	defer cleaned.Close()
	gocv.MorphologyEx(opened, &cleaned, gocv.MorphClose, kernel)

	regions := regionsFromMask(&cleaned, m.minArea, image.Rect(0, 0, frame.Cols(), frame.Rows()))

	// Periodically replace the background reference to absorb lighting drift.
	m.frameCount++
	if m.frameCount%m.refreshEvery == 0 {
		blurred.CopyTo(&m.background)
	}

	return regions
}

// SetSensitivity updates the difference threshold and discards the
// current background reference, matching the behavior of re-arming the
// monitor after a sensitivity change. Values <= 0 are ignored.
func (m *MotionExtractor) SetSensitivity(sensitivity float64) {
	if sensitivity <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sensitivity = sensitivity
	m.resetLocked()
}

// Reset clears the background reference so the next frame becomes the
// new baseline.
func (m *MotionExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

// Close releases resources held by the extractor.
func (m *MotionExtractor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *MotionExtractor) resetLocked() {
	if !m.background.Empty() {
		m.background.Close()
		m.background = gocv.NewMat()
	}
	m.initialized = false
	m.frameCount = 0
}
