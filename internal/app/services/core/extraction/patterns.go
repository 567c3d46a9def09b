package extraction

import (
	"regexp"

	"heartshield-service/internal/app/models"
)

// fieldPattern binds one label spelling found on scanned documents to a
// canonical reading. Weight discounts the looser spellings; final field
// confidence is weight x profile base x recognizer confidence.
type fieldPattern struct {
	Field   models.FieldName
	Weight  float64
	Pattern *regexp.Regexp
	// Pair patterns capture a systolic/diastolic pair in groups 1 and 2
	// instead of a single value.
	Pair bool
}

// numberGroup captures integer and short decimal readings, accepting the
// comma decimal separator some lab printouts use.
const numberGroup = `(\d{1,3}(?:[.,]\d{1,2})?)`

// fieldPatterns run against lowercased recognizer output. Ordering within a
// reading goes strict to permissive; the permissive spellings tolerate the
// o/0 and a/e confusions OCR produces on low-quality scans.
var fieldPatterns = []fieldPattern{
	{Field: models.FieldAge, Weight: 0.9, Pattern: regexp.MustCompile(`\bage\s*(?:is\s*)?[:=]?\s*(\d{1,3})`)},
	{Field: models.FieldAge, Weight: 0.8, Pattern: regexp.MustCompile(`\b(\d{1,3})\s*(?:years?\s*old|y/o|yo)\b`)},

	{Field: models.FieldSex, Weight: 0.85, Pattern: regexp.MustCompile(`\b(?:sex|gender)\s*[:=]?\s*(male|female|m|f)\b`)},

	{Field: models.FieldSystolicBP, Pair: true, Weight: 0.95, Pattern: regexp.MustCompile(`\b(?:blood\s*pressure|b\.?\s*p\.?)\s*[:=]?\s*(\d{2,3})\s*/\s*(\d{2,3})`)},
	{Field: models.FieldSystolicBP, Pair: true, Weight: 0.9, Pattern: regexp.MustCompile(`\bpressure\s*[:=]?\s*(\d{2,3})\s*/\s*(\d{2,3})`)},
	{Field: models.FieldSystolicBP, Pair: true, Weight: 0.6, Pattern: regexp.MustCompile(`\b(\d{2,3})\s*/\s*(\d{2,3})\b`)},

	{Field: models.FieldCholesterol, Weight: 0.95, Pattern: regexp.MustCompile(`\b(?:total\s*)?cholesterol\s*(?:level|result)?\s*[:=]?\s*` + numberGroup)},
	{Field: models.FieldCholesterol, Weight: 0.85, Pattern: regexp.MustCompile(`\bchol\.?\s*[:=]?\s*` + numberGroup)},
	{Field: models.FieldCholesterol, Weight: 0.7, Pattern: regexp.MustCompile(`\bch[o0]l(?:est[ae]r[o0]l)?[^\da-z]{0,5}` + numberGroup)},

	{Field: models.FieldHeartRate, Weight: 0.9, Pattern: regexp.MustCompile(`\b(?:heart\s*rate|pulse(?:\s*rate)?|hr)\s*[:=]?\s*(\d{1,3})`)},
	{Field: models.FieldHeartRate, Weight: 0.8, Pattern: regexp.MustCompile(`\b(\d{1,3})\s*bpm\b`)},

	{Field: models.FieldGlucose, Weight: 0.9, Pattern: regexp.MustCompile(`\b(?:fasting\s*)?(?:glucose|blood\s*sugar|fbs)\s*(?:level)?\s*[:=]?\s*` + numberGroup)},

	{Field: models.FieldHDL, Weight: 0.9, Pattern: regexp.MustCompile(`\bhdl(?:\s*cholesterol)?\s*[:=]?\s*` + numberGroup)},
	{Field: models.FieldHDL, Weight: 0.85, Pattern: regexp.MustCompile(`\bhigh[\s-]*density\s*lipoprotein\s*[:=]?\s*` + numberGroup)},

	{Field: models.FieldLDL, Weight: 0.9, Pattern: regexp.MustCompile(`\bldl(?:\s*cholesterol)?\s*[:=]?\s*` + numberGroup)},
	{Field: models.FieldLDL, Weight: 0.85, Pattern: regexp.MustCompile(`\blow[\s-]*density\s*lipoprotein\s*[:=]?\s*` + numberGroup)},
}

// unitTailPattern recognizes the unit spellings that may trail a value.
// Longer spellings come first; Go regexp alternation is first-match.
var unitTailPattern = regexp.MustCompile(`mg\s*/\s*dl|mgdl|mmol\s*/\s*l|mmoll|mmol|mm\s*hg|bpm|years?|yrs|y/o|yo|mg`)
