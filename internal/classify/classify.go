// Package classify maps extracted regions to labels using static lookup
// tables and ordered rule evaluation. Every function here is pure: the
// same region and table always produce the same label.
package classify

// Labels emitted by the classifiers.
const (
	// LabelCompliant marks a face region with acceptable head protection.
	LabelCompliant = "ppe_compliant"
	// LabelViolation marks a face region without head protection.
	LabelViolation = "no_helmet"

	// LabelEquipmentOK marks an equipment region with no visible defect.
	LabelEquipmentOK = "equipment_ok"

	// LabelGasDetected marks a frame whose color statistics suggest gas.
	LabelGasDetected = "gas_detected"
	// LabelDustLevel carries the dust pixel count for a frame.
	LabelDustLevel = "dust_level"

	// LabelMotion marks a moving region from the motion extractor.
	LabelMotion = "motion"
)
