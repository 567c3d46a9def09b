package extraction

import (
	"regexp"

	"heartshield-service/internal/app/models"
)

// medicalIndicators gate extraction: recognized text mentioning fewer than
// minMedicalIndicators of these is not treated as a medical document.
var medicalIndicators = compileKeywords([]string{
	"patient", "doctor", "hospital", "clinic", "medical",
	"health", "diagnosis", "treatment", "medication",
	"blood", "pressure", "heart", "cholesterol",
})

const minMedicalIndicators = 2

// documentKeywords score recognized text against each known layout family.
// A family claims the document with at least minTypeScore hits.
var documentKeywords = []struct {
	Type     models.DocumentType
	Keywords []*regexp.Regexp
}{
	{
		Type: models.DocumentTypeLabReport,
		Keywords: compileKeywords([]string{
			"laboratory", "lab report", "test results", "bun", "creatinine",
			"blood test", "chemistry", "cbc", "lipid profile", "glucose",
			"reference range", "normal range", "specimen",
		}),
	},
	{
		Type: models.DocumentTypeDischargeSummary,
		Keywords: compileKeywords([]string{
			"discharge", "admission", "hospital course", "discharged",
			"admitted", "final diagnosis", "discharge medications",
			"follow up", "condition on discharge", "hospital stay",
		}),
	},
	{
		Type: models.DocumentTypeClinicNotes,
		Keywords: compileKeywords([]string{
			"clinic", "follow-up", "progress note", "assessment",
			"subjective", "objective", "plan", "soap", "chief complaint",
			"physical exam", "vital signs", "clinic visit",
		}),
	},
}

const minTypeScore = 2

func compileKeywords(keywords []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(keywords))
	for _, keyword := range keywords {
		compiled = append(compiled, regexp.MustCompile(`\b`+regexp.QuoteMeta(keyword)+`\b`))
	}
	return compiled
}

func countMatches(text string, keywords []*regexp.Regexp) int {
	count := 0
	for _, keyword := range keywords {
		if keyword.MatchString(text) {
			count++
		}
	}
	return count
}

// isMedicalText reports whether lowercased recognizer output passes the
// medical content gate.
func isMedicalText(text string) bool {
	return countMatches(text, medicalIndicators) >= minMedicalIndicators
}

// classifyDocumentType picks the layout family with the highest keyword
// score, falling back to the general profile when no family reaches the
// minimum. Ties resolve in declaration order.
func classifyDocumentType(text string) models.DocumentType {
	bestType := models.DocumentTypeGeneral
	bestScore := 0
	for _, family := range documentKeywords {
		score := countMatches(text, family.Keywords)
		if score > bestScore {
			bestScore = score
			bestType = family.Type
		}
	}
	if bestScore < minTypeScore {
		return models.DocumentTypeGeneral
	}
	return bestType
}

// extractionProfile tunes parsing to the document layout: which readings
// are searched for and the base confidence their matches carry.
type extractionProfile struct {
	DocumentType   models.DocumentType
	BaseConfidence float64
	fields         map[models.FieldName]bool
}

func (p extractionProfile) allows(name models.FieldName) bool {
	return p.fields[name]
}

var (
	fullProfileFields = fieldNameSet(
		models.FieldAge, models.FieldSex, models.FieldSystolicBP,
		models.FieldDiastolicBP, models.FieldCholesterol, models.FieldHeartRate,
		models.FieldGlucose, models.FieldHDL, models.FieldLDL,
	)

	// Clinic notes rarely carry lab analytes; only demographics and vitals
	// are searched for.
	vitalsProfileFields = fieldNameSet(
		models.FieldAge, models.FieldSex, models.FieldSystolicBP,
		models.FieldDiastolicBP, models.FieldHeartRate,
	)
)

var profiles = map[models.DocumentType]extractionProfile{
	models.DocumentTypeLabReport:        {DocumentType: models.DocumentTypeLabReport, BaseConfidence: 1.0, fields: fullProfileFields},
	models.DocumentTypeDischargeSummary: {DocumentType: models.DocumentTypeDischargeSummary, BaseConfidence: 0.95, fields: fullProfileFields},
	models.DocumentTypeClinicNotes:      {DocumentType: models.DocumentTypeClinicNotes, BaseConfidence: 0.9, fields: vitalsProfileFields},
	models.DocumentTypeGeneral:          {DocumentType: models.DocumentTypeGeneral, BaseConfidence: 0.7, fields: fullProfileFields},
}

func profileFor(docType models.DocumentType) extractionProfile {
	profile, ok := profiles[docType]
	if !ok {
		return profiles[models.DocumentTypeGeneral]
	}
	return profile
}

func fieldNameSet(names ...models.FieldName) map[models.FieldName]bool {
	set := make(map[models.FieldName]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
