package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	cam := NewCamera(0)

	if cam.FPS() != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", cam.FPS(), DefaultFPS)
	}
	if cam.IsOpen() {
		t.Error("camera should not be open before Open()")
	}
}

func TestNewCameraWithSize_InvalidDimensions(t *testing.T) {
	cam := NewCameraWithSize(0, 0, -1).(*deviceCamera)

	if cam.width != DefaultWidth || cam.height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", cam.width, cam.height, DefaultWidth, DefaultHeight)
	}
}

func TestDeviceCamera_ReadBeforeOpen(t *testing.T) {
	cam := NewCamera(0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestDeviceCamera_SetFPS_Ignored(t *testing.T) {
	cam := NewCamera(0)

	cam.SetFPS(-1)
	if cam.FPS() != DefaultFPS {
		t.Errorf("negative FPS should be ignored, got %d", cam.FPS())
	}

	cam.SetFPS(30)
	if cam.FPS() != 30 {
		t.Errorf("FPS() = %d, want 30", cam.FPS())
	}
}

func TestDeviceCamera_CloseWithoutOpen(t *testing.T) {
	cam := NewCamera(0)
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera error = %v, want nil", err)
	}
}

func TestImageSource_MissingFile(t *testing.T) {
	src := NewImageSource("testdata/does-not-exist.jpg")
	if err := src.Open(); err == nil {
		src.Close()
		t.Fatal("Open() should fail for a missing file")
	}
}

func TestImageSource_ReadBeforeOpen(t *testing.T) {
	src := NewImageSource("whatever.jpg")
	if _, err := src.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer f1.Close()
	f2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer f2.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1, &f2}, false)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Fatalf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		frame.Close()
	}

	// Non-looping camera runs out of frames.
	if _, err := cam.ReadFrame(); err == nil {
		t.Error("ReadFrame() after last frame should fail for non-looping camera")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer f1.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1}, true)
	cam.Open()

	for i := 0; i < 3; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("looping ReadFrame() %d error = %v", i, err)
		}
		frame.Close()
	}
}
