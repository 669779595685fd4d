// Package vision implements the frame classification pipeline: color-space
// mapping, HSV threshold-based region extraction and frame-differencing
// motion extraction using GoCV (OpenCV).
package vision

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when a zero-sized frame is passed to the mapper.
var ErrEmptyFrame = errors.New("empty frame")

// ColorRange is an inclusive lower/upper bound pair in HSV space.
// Components are ordered hue, saturation, value. Ranges are static
// configuration and never mutated at runtime.
type ColorRange struct {
	Lower [3]float64 `json:"lower"`
	Upper [3]float64 `json:"upper"`
}

// NewColorRange builds a ColorRange from lower and upper HSV triples.
func NewColorRange(lower, upper [3]float64) ColorRange {
	return ColorRange{Lower: lower, Upper: upper}
}

func (r ColorRange) lowerScalar() gocv.Scalar {
	return gocv.NewScalar(r.Lower[0], r.Lower[1], r.Lower[2], 0)
}

func (r ColorRange) upperScalar() gocv.Scalar {
	return gocv.NewScalar(r.Upper[0], r.Upper[1], r.Upper[2], 0)
}

// Region is a connected set of mask pixels detected in one frame.
// Regions have no cross-frame identity; they are discarded once the
// frame's records are produced.
type Region struct {
	// Box is the bounding box, clipped to frame bounds.
	Box image.Rectangle
	// Area is the contour pixel area.
	Area float64
}

// ToHSV converts a BGR frame to HSV. The caller owns the returned Mat.
func ToHSV(frame *gocv.Mat) (gocv.Mat, error) {
	if frame == nil || frame.Empty() {
		return gocv.NewMat(), ErrEmptyFrame
	}

	hsv := gocv.NewMat()
	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)
	return hsv, nil
}

// ToGray converts a BGR frame to single-channel intensity.
// Single-channel input is copied as-is. The caller owns the returned Mat.
func ToGray(frame *gocv.Mat) (gocv.Mat, error) {
	if frame == nil || frame.Empty() {
		return gocv.NewMat(), ErrEmptyFrame
	}

	gray := gocv.NewMat()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	return gray, nil
}

// regionsFromMask finds external contours of mask==1 pixels, drops
// components below minArea and clips bounding boxes to frame bounds.
func regionsFromMask(mask *gocv.Mat, minArea float64, bounds image.Rectangle) []Region {
	contours := gocv.FindContours(*mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var regions []Region
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		area := gocv.ContourArea(contour)
		if area < minArea {
			continue
		}

		regions = append(regions, Region{
			Box:  gocv.BoundingRect(contour).Intersect(bounds),
			Area: area,
		})
	}

	return regions
}
