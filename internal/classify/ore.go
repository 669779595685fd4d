package classify

import "minewatch/internal/vision"

// OreClass describes one ore category: the HSV range that identifies it
// and its base value in dollars per 1000 pixels of detected area.
type OreClass struct {
	Name  string            `json:"name"`
	Range vision.ColorRange `json:"range"`
	Value float64           `json:"value"`
}

// DefaultOreTable returns the built-in ore classification table.
// Each extractor run is scoped to a single class, so the class that
// produced the matching range determines the label directly.
func DefaultOreTable() []OreClass {
	return []OreClass{
		{Name: "iron", Range: vision.NewColorRange([3]float64{0, 50, 50}, [3]float64{20, 255, 255}), Value: 100},
		{Name: "copper", Range: vision.NewColorRange([3]float64{10, 100, 100}, [3]float64{30, 255, 255}), Value: 150},
		{Name: "gold", Range: vision.NewColorRange([3]float64{20, 100, 100}, [3]float64{40, 255, 255}), Value: 500},
		{Name: "silver", Range: vision.NewColorRange([3]float64{0, 0, 100}, [3]float64{180, 30, 255}), Value: 200},
		{Name: "coal", Range: vision.NewColorRange([3]float64{0, 0, 0}, [3]float64{180, 255, 50}), Value: 80},
	}
}

// OreValue estimates the dollar value of a detection: the class base
// value per 1000 pixels, scaled by the region area.
func OreValue(class OreClass, area float64) float64 {
	return class.Value / 1000 * area
}
