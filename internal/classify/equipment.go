package classify

import (
	"gocv.io/x/gocv"

	"minewatch/internal/vision"
)

// EquipmentRule is one entry of the ordered equipment assessment table.
// Rules are evaluated top to bottom and the first match wins; the ranges
// are mutually exclusive by construction, so no ties are possible.
type EquipmentRule struct {
	Label    string            `json:"label"`
	Range    vision.ColorRange `json:"range"`
	MinRatio float64           `json:"min_ratio"`
}

// DefaultEquipmentRules returns the built-in rule table:
// rust-colored pixel ratio above 0.1 wins over dark-pixel (oil) ratio
// above 0.2; anything else is considered healthy.
func DefaultEquipmentRules() []EquipmentRule {
	return []EquipmentRule{
		{Label: "rust_detected", Range: vision.NewColorRange([3]float64{0, 50, 50}, [3]float64{20, 255, 255}), MinRatio: 0.1},
		{Label: "oil_leak", Range: vision.NewColorRange([3]float64{0, 0, 0}, [3]float64{180, 255, 50}), MinRatio: 0.2},
	}
}

// AssessEquipment evaluates the rule table against an equipment
// sub-region and returns the first matching label with its pixel ratio.
// A region matching no rule is labeled LabelEquipmentOK.
func AssessEquipment(roi *gocv.Mat, rules []EquipmentRule) (string, float64) {
	if roi == nil || roi.Empty() {
		return LabelEquipmentOK, 0
	}

	for _, rule := range rules {
		ratio := vision.MaskRatio(roi, rule.Range)
		if ratio > rule.MinRatio {
			return rule.Label, ratio
		}
	}

	return LabelEquipmentOK, 0
}
