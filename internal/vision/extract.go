package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// Default Canny hysteresis thresholds for edge-based extraction.
const (
	CannyLowThreshold  = 50
	CannyHighThreshold = 150
)

// ExtractColorRegions returns the connected regions of the BGR frame whose
// HSV values fall inside rng, keeping only regions with area >= minArea.
// A nil, empty or degenerate frame yields an empty result, never an error.
func ExtractColorRegions(frame *gocv.Mat, rng ColorRange, minArea float64) []Region {
	hsv, err := ToHSV(frame)
	if err != nil {
		return nil
	}
	defer hsv.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, rng.lowerScalar(), rng.upperScalar(), &mask)

	return regionsFromMask(&mask, minArea, image.Rect(0, 0, frame.Cols(), frame.Rows()))
}

// ExtractEdgeRegions returns large connected regions found on the Canny
// edge map of the frame. Used to locate equipment-sized objects before
// their sub-region is classified.
func ExtractEdgeRegions(frame *gocv.Mat, minArea float64) []Region {
	gray, err := ToGray(frame)
	if err != nil {
		return nil
	}
	defer gray.Close()

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, CannyLowThreshold, CannyHighThreshold)

	return regionsFromMask(&edges, minArea, image.Rect(0, 0, frame.Cols(), frame.Rows()))
}

// MaskRatio returns the fraction of pixels in the BGR frame whose HSV
// values fall inside rng. Returns 0 for empty frames.
func MaskRatio(frame *gocv.Mat, rng ColorRange) float64 {
	hsv, err := ToHSV(frame)
	if err != nil {
		return 0
	}
	defer hsv.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, rng.lowerScalar(), rng.upperScalar(), &mask)

	total := mask.Rows() * mask.Cols()
	if total == 0 {
		return 0
	}

	return float64(gocv.CountNonZero(mask)) / float64(total)
}

// CountInRange returns the number of pixels in the BGR frame whose HSV
// values fall inside rng.
func CountInRange(frame *gocv.Mat, rng ColorRange) int {
	hsv, err := ToHSV(frame)
	if err != nil {
		return 0
	}
	defer hsv.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, rng.lowerScalar(), rng.upperScalar(), &mask)

	return gocv.CountNonZero(mask)
}

// MeanHSV returns the per-channel mean of the frame in HSV space,
// ordered hue, saturation, value. Returns zeros for empty frames.
func MeanHSV(frame *gocv.Mat) (h, s, v float64) {
	hsv, err := ToHSV(frame)
	if err != nil {
		return 0, 0, 0
	}
	defer hsv.Close()

	mean := hsv.Mean()
	return mean.Val1, mean.Val2, mean.Val3
}
