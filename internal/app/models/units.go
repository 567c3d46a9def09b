package models

import "strings"

// Canonical units per reading. Lipid panels and glucose normalize to mg/dL,
// pressures to mmHg, heart rate to bpm, age to years.
const (
	UnitMgPerDL  = "mg/dL"
	UnitMmolPerL = "mmol/L"
	UnitMmHg     = "mmHg"
	UnitBPM      = "bpm"
	UnitYears    = "years"
)

// Molar conversion factors for mmol/L readings.
const (
	cholesterolMolarFactor = 38.67
	glucoseMolarFactor     = 18.016
)

var canonicalUnits = map[FieldName]string{
	FieldAge:         UnitYears,
	FieldSystolicBP:  UnitMmHg,
	FieldDiastolicBP: UnitMmHg,
	FieldCholesterol: UnitMgPerDL,
	FieldHeartRate:   UnitBPM,
	FieldGlucose:     UnitMgPerDL,
	FieldHDL:         UnitMgPerDL,
	FieldLDL:         UnitMgPerDL,
}

// CanonicalUnit returns the unit a reading is stored in. Fields without a
// physical unit (the coded clinical findings) return the empty string.
func CanonicalUnit(name FieldName) string {
	return canonicalUnits[name]
}

func molarFactor(name FieldName) (float64, bool) {
	switch name {
	case FieldCholesterol, FieldHDL, FieldLDL:
		return cholesterolMolarFactor, true
	case FieldGlucose:
		return glucoseMolarFactor, true
	}
	return 0, false
}

// NormalizeUnit maps the unit spellings found on documents to their
// canonical form. It returns false for units the reading does not support.
func NormalizeUnit(name FieldName, unit string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(unit))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	canonical := canonicalUnits[name]

	switch cleaned {
	case "":
		return canonical, true
	case "mg/dl", "mgdl", "mg":
		if canonical == UnitMgPerDL {
			return UnitMgPerDL, true
		}
	case "mmol/l", "mmoll", "mmol":
		if _, ok := molarFactor(name); ok {
			return UnitMmolPerL, true
		}
	case "mmhg":
		if canonical == UnitMmHg {
			return UnitMmHg, true
		}
	case "bpm":
		if canonical == UnitBPM {
			return UnitBPM, true
		}
	case "years", "year", "yrs", "yo", "y/o":
		if canonical == UnitYears {
			return UnitYears, true
		}
	}
	return "", false
}

// ToCanonical converts a value carrying the given unit into the reading's
// canonical unit. An empty unit means the document stated none: the
// canonical unit is assumed and the second return flags that assumption.
// The error-free false return covers unsupported unit spellings.
func ToCanonical(name FieldName, value float64, unit string) (converted float64, assumed bool, ok bool) {
	normalized, ok := NormalizeUnit(name, unit)
	if !ok {
		return 0, false, false
	}

	assumed = strings.TrimSpace(unit) == ""
	if normalized == UnitMmolPerL {
		factor, _ := molarFactor(name)
		return value * factor, assumed, true
	}
	return value, assumed, true
}

// FromCanonical converts a canonical value back into the given unit. It is
// the inverse of ToCanonical for every supported unit.
func FromCanonical(name FieldName, value float64, unit string) (float64, bool) {
	normalized, ok := NormalizeUnit(name, unit)
	if !ok {
		return 0, false
	}

	if normalized == UnitMmolPerL {
		factor, _ := molarFactor(name)
		return value / factor, true
	}
	return value, true
}
