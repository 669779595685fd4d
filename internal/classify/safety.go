package classify

import (
	"gocv.io/x/gocv"

	"minewatch/internal/vision"
)

// HelmetRule decides PPE compliance for the band of pixels above a
// detected face: the region is compliant when the ratio of bright,
// low-saturation pixels (typical helmet colors) exceeds MinRatio.
type HelmetRule struct {
	Bright   vision.ColorRange `json:"bright"`
	MinRatio float64           `json:"min_ratio"`
}

// DefaultHelmetRule returns the built-in helmet detection rule.
func DefaultHelmetRule() HelmetRule {
	return HelmetRule{
		Bright:   vision.NewColorRange([3]float64{0, 0, 200}, [3]float64{180, 30, 255}),
		MinRatio: 0.1,
	}
}

// CheckHelmet classifies the region above a face. Returns the label
// (LabelCompliant or LabelViolation) and the measured bright-pixel ratio.
// An empty region cannot show a helmet and is a violation.
func CheckHelmet(roi *gocv.Mat, rule HelmetRule) (string, float64) {
	if roi == nil || roi.Empty() {
		return LabelViolation, 0
	}

	ratio := vision.MaskRatio(roi, rule.Bright)
	if ratio > rule.MinRatio {
		return LabelCompliant, ratio
	}
	return LabelViolation, ratio
}
