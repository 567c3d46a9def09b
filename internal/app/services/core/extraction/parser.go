package extraction

import (
	"strconv"
	"strings"

	"heartshield-service/internal/app/models"
)

// tailWindow is how far past a matched value the parser looks for a unit.
const tailWindow = 12

// parseFields runs the profile's pattern groups over recognized text and
// returns the plausible readings found. Text must already be lowercased.
// Duplicate mentions of one reading keep the highest-confidence occurrence;
// values outside the plausibility windows are dropped.
func parseFields(text string, profile extractionProfile, recognizerConfidence float64) models.FieldSet {
	fields := make(models.FieldSet)

	for _, pattern := range fieldPatterns {
		if !profile.allows(pattern.Field) {
			continue
		}
		confidence := pattern.Weight * profile.BaseConfidence * recognizerConfidence
		for _, match := range pattern.Pattern.FindAllStringSubmatchIndex(text, -1) {
			switch {
			case pattern.Pair:
				putPressurePair(fields, text, match, confidence)
			case pattern.Field == models.FieldSex:
				putSex(fields, text, match, confidence)
			default:
				putReading(fields, pattern.Field, text, match, confidence)
			}
		}
	}

	return fields
}

func putReading(fields models.FieldSet, name models.FieldName, text string, match []int, confidence float64) {
	value, err := parseNumber(text[match[2]:match[3]])
	if err != nil {
		return
	}

	unit := detectUnit(text, match[3])
	canonical, assumed, ok := models.ToCanonical(name, value, unit)
	if !ok {
		return
	}
	if !models.WithinPlausibleRange(name, canonical) {
		return
	}

	fields.Put(models.ExtractedField{
		Name:        name,
		Value:       canonical,
		Unit:        models.CanonicalUnit(name),
		Confidence:  confidence,
		Source:      models.FieldSourceExtracted,
		AssumedUnit: assumed,
		RawText:     strings.TrimSpace(text[match[0]:match[1]]),
	})
}

// putPressurePair stores a systolic/diastolic pair. The pair is accepted or
// rejected as a whole so a plausible diastolic never survives alongside an
// implausible systolic.
func putPressurePair(fields models.FieldSet, text string, match []int, confidence float64) {
	systolic, errSys := parseNumber(text[match[2]:match[3]])
	diastolic, errDia := parseNumber(text[match[4]:match[5]])
	if errSys != nil || errDia != nil {
		return
	}

	unit := detectUnit(text, match[5])
	systolicCanonical, assumed, ok := models.ToCanonical(models.FieldSystolicBP, systolic, unit)
	if !ok {
		return
	}
	diastolicCanonical, _, ok := models.ToCanonical(models.FieldDiastolicBP, diastolic, unit)
	if !ok {
		return
	}
	if !models.WithinPlausibleRange(models.FieldSystolicBP, systolicCanonical) ||
		!models.WithinPlausibleRange(models.FieldDiastolicBP, diastolicCanonical) {
		return
	}

	raw := strings.TrimSpace(text[match[0]:match[1]])
	fields.Put(models.ExtractedField{
		Name:        models.FieldSystolicBP,
		Value:       systolicCanonical,
		Unit:        models.UnitMmHg,
		Confidence:  confidence,
		Source:      models.FieldSourceExtracted,
		AssumedUnit: assumed,
		RawText:     raw,
	})
	fields.Put(models.ExtractedField{
		Name:        models.FieldDiastolicBP,
		Value:       diastolicCanonical,
		Unit:        models.UnitMmHg,
		Confidence:  confidence,
		Source:      models.FieldSourceExtracted,
		AssumedUnit: assumed,
		RawText:     raw,
	})
}

func putSex(fields models.FieldSet, text string, match []int, confidence float64) {
	var value float64
	switch text[match[2]:match[3]] {
	case "male", "m":
		value = 1
	case "female", "f":
		value = 0
	default:
		return
	}

	fields.Put(models.ExtractedField{
		Name:       models.FieldSex,
		Value:      value,
		Confidence: confidence,
		Source:     models.FieldSourceExtracted,
		RawText:    strings.TrimSpace(text[match[0]:match[1]]),
	})
}

func parseNumber(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

// detectUnit scans the text immediately after a matched value for a unit
// spelling. The scan stops at the end of the line; a unit never trails onto
// the next one.
func detectUnit(text string, start int) string {
	end := start + tailWindow
	if end > len(text) {
		end = len(text)
	}
	tail := text[start:end]
	if i := strings.IndexByte(tail, '\n'); i >= 0 {
		tail = tail[:i]
	}
	return unitTailPattern.FindString(tail)
}
