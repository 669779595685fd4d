package vision

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionExtractor(t *testing.T) {
	tests := []struct {
		name         string
		sensitivity  float64
		refreshEvery int
		wantRefresh  int
	}{
		{
			name:         "configured interval",
			sensitivity:  50,
			refreshEvery: 10,
			wantRefresh:  10,
		},
		{
			name:         "zero interval falls back to default",
			sensitivity:  50,
			refreshEvery: 0,
			wantRefresh:  30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMotionExtractor(tt.sensitivity, 1000, tt.refreshEvery)
			defer m.Close()

			if m.refreshEvery != tt.wantRefresh {
				t.Errorf("refreshEvery = %d, want %d", m.refreshEvery, tt.wantRefresh)
			}
			if m.initialized {
				t.Error("extractor should not be initialized before the first frame")
			}
		})
	}
}

func TestMotionExtractor_IdenticalFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewMotionExtractor(50, 1000, 30)
	defer m.Close()

	frame1 := newSolidFrame(480, 640, 0, 0, 0)
	defer frame1.Close()
	frame2 := newSolidFrame(480, 640, 0, 0, 0)
	defer frame2.Close()

	// First frame becomes the background reference.
	if regions := m.Extract(&frame1); len(regions) != 0 {
		t.Errorf("first frame regions = %d, want 0", len(regions))
	}

	// An identical second frame yields no motion.
	if regions := m.Extract(&frame2); len(regions) != 0 {
		t.Errorf("identical frame regions = %d, want 0", len(regions))
	}
}

func TestMotionExtractor_RectangleAgainstBlankReference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewMotionExtractor(50, 1000, 30)
	defer m.Close()

	background := newSolidFrame(480, 640, 0, 0, 0)
	defer background.Close()
	m.Extract(&background)

	moved := newSolidFrame(480, 640, 0, 0, 0)
	defer moved.Close()
	rect := image.Rect(200, 150, 320, 270) // 120x120, well above min area
	fillRect(&moved, rect, color.RGBA{R: 255, G: 255, B: 255})

	regions := m.Extract(&moved)
	if len(regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(regions))
	}

	// Gaussian blur and morphology smear the edges by a few pixels.
	box := regions[0].Box
	const tolerance = 12
	if abs(box.Min.X-rect.Min.X) > tolerance || abs(box.Min.Y-rect.Min.Y) > tolerance ||
		abs(box.Max.X-rect.Max.X) > tolerance || abs(box.Max.Y-rect.Max.Y) > tolerance {
		t.Errorf("box = %v, want within %dpx of %v", box, tolerance, rect)
	}

	if regions[0].Area < 1000 {
		t.Errorf("area = %f, want >= min area 1000", regions[0].Area)
	}
}

func TestMotionExtractor_BackgroundRefreshBoundary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	// Refresh every 2 processed frames: the frame processed at the
	// boundary must become the new reference, not an older one.
	m := NewMotionExtractor(50, 1000, 2)
	defer m.Close()

	black := newSolidFrame(480, 640, 0, 0, 0)
	defer black.Close()

	withRect := newSolidFrame(480, 640, 0, 0, 0)
	defer withRect.Close()
	fillRect(&withRect, image.Rect(100, 100, 250, 250), color.RGBA{R: 255, G: 255, B: 255})

	m.Extract(&black) // initializes the reference

	if regions := m.Extract(&withRect); len(regions) != 1 {
		t.Fatalf("frame 1 regions = %d, want 1 against blank reference", len(regions))
	}

	// Frame 2 hits the refresh boundary: the rectangle frame becomes
	// the new reference after extraction.
	if regions := m.Extract(&withRect); len(regions) != 1 {
		t.Fatalf("frame 2 regions = %d, want 1 (still differenced against blank)", len(regions))
	}

	// Frame 3 is identical to the new reference: no motion.
	if regions := m.Extract(&withRect); len(regions) != 0 {
		t.Errorf("frame 3 regions = %d, want 0 after reference refresh", len(regions))
	}
}

func TestMotionExtractor_SetSensitivityResetsReference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := NewMotionExtractor(50, 1000, 30)
	defer m.Close()

	frame := newSolidFrame(480, 640, 0, 0, 0)
	defer frame.Close()

	m.Extract(&frame)
	if !m.initialized {
		t.Fatal("extractor should be initialized after first frame")
	}

	m.SetSensitivity(75)
	if m.initialized {
		t.Error("sensitivity change should discard the background reference")
	}

	// Values <= 0 are ignored.
	m.SetSensitivity(0)
	if m.sensitivity != 75 {
		t.Errorf("sensitivity = %f, want 75 after ignored update", m.sensitivity)
	}
}

func TestMotionExtractor_EmptyFrame(t *testing.T) {
	m := NewMotionExtractor(50, 1000, 30)
	defer m.Close()

	empty := gocv.NewMat()
	defer empty.Close()

	if regions := m.Extract(&empty); len(regions) != 0 {
		t.Errorf("regions = %d, want 0 for empty frame", len(regions))
	}
	if regions := m.Extract(nil); len(regions) != 0 {
		t.Errorf("regions = %d, want 0 for nil frame", len(regions))
	}
}

func TestMotionExtractor_CloseMultiple(t *testing.T) {
	m := NewMotionExtractor(50, 1000, 30)
	m.Close()
	m.Close()
}
