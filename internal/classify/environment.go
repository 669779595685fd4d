package classify

import (
	"gocv.io/x/gocv"

	"minewatch/internal/vision"
)

// EnvironmentThresholds holds the tuning values for the environmental
// monitor. The hue/saturation cutoffs are arbitrary tuning constants
// carried over as configurable defaults.
type EnvironmentThresholds struct {
	Dust          vision.ColorRange `json:"dust"`
	GasHue        float64           `json:"gas_hue"`
	GasSaturation float64           `json:"gas_saturation"`
}

// DefaultEnvironmentThresholds returns the built-in environment tuning.
func DefaultEnvironmentThresholds() EnvironmentThresholds {
	return EnvironmentThresholds{
		Dust:          vision.NewColorRange([3]float64{0, 0, 100}, [3]float64{180, 30, 200}),
		GasHue:        100,
		GasSaturation: 50,
	}
}

// AssessEnvironment measures the dust level (count of grayish pixels)
// and applies the gas heuristic: an unusually high mean hue or an
// unusually low mean saturation over the whole frame.
func AssessEnvironment(frame *gocv.Mat, th EnvironmentThresholds) (dustLevel int, gasDetected bool) {
	if frame == nil || frame.Empty() {
		return 0, false
	}

	dustLevel = vision.CountInRange(frame, th.Dust)

	hue, sat, _ := vision.MeanHSV(frame)
	gasDetected = hue > th.GasHue || sat < th.GasSaturation

	return dustLevel, gasDetected
}
