package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ImageSource serves a single image file as a frame source, so the
// monitor can be pointed at a still capture instead of a live device.
type ImageSource struct {
	path    string
	frame   gocv.Mat
	running bool
	fps     int
	mu      sync.Mutex
}

// NewImageSource creates an ImageSource for the given file path.
// The file is read on Open.
func NewImageSource(path string) *ImageSource {
	return &ImageSource{
		path: path,
		fps:  DefaultFPS,
	}
}

// Open loads the image file. A missing or undecodable file is fatal,
// matching the device-unavailable error class.
func (s *ImageSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	mat := gocv.IMRead(s.path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return fmt.Errorf("read image %s: empty or undecodable", s.path)
	}

	s.frame = mat
	s.running = true
	return nil
}

// Close releases the loaded image.
func (s *ImageSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running && !s.frame.Empty() {
		s.frame.Close()
		s.frame = gocv.NewMat()
	}
	s.running = false
	return nil
}

// ReadFrame returns a clone of the loaded image. The caller is
// responsible for closing the returned Mat.
func (s *ImageSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrCameraNotOpen
	}

	clone := s.frame.Clone()
	return &clone, nil
}

// SetFPS sets the nominal frame rate reported by the source.
func (s *ImageSource) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fps = fps
}

// FPS returns the nominal frame rate.
func (s *ImageSource) FPS() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

// IsOpen returns true if the image was loaded.
func (s *ImageSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
