package models

import "sort"

// FieldName is the canonical name of a medical reading the service
// understands, shared by extraction, manual entry and classification.
type FieldName string

const (
	FieldAge         FieldName = "age"
	FieldSex         FieldName = "sex"
	FieldSystolicBP  FieldName = "systolic_bp"
	FieldDiastolicBP FieldName = "diastolic_bp"
	FieldCholesterol FieldName = "cholesterol"
	FieldHeartRate   FieldName = "heart_rate"
	FieldGlucose     FieldName = "glucose"
	FieldHDL         FieldName = "hdl"
	FieldLDL         FieldName = "ldl"

	// Clinical findings below never come from scanned documents, only from
	// manual entry.
	FieldChestPainType  FieldName = "chest_pain_type"
	FieldRestingECG     FieldName = "resting_ecg"
	FieldExerciseAngina FieldName = "exercise_angina"
	FieldSTDepression   FieldName = "st_depression"
	FieldSTSlope        FieldName = "st_slope"
	FieldMajorVessels   FieldName = "major_vessels"
	FieldThalassemia    FieldName = "thalassemia"
)

var knownFieldNames = map[FieldName]bool{
	FieldAge:            true,
	FieldSex:            true,
	FieldSystolicBP:     true,
	FieldDiastolicBP:    true,
	FieldCholesterol:    true,
	FieldHeartRate:      true,
	FieldGlucose:        true,
	FieldHDL:            true,
	FieldLDL:            true,
	FieldChestPainType:  true,
	FieldRestingECG:     true,
	FieldExerciseAngina: true,
	FieldSTDepression:   true,
	FieldSTSlope:        true,
	FieldMajorVessels:   true,
	FieldThalassemia:    true,
}

func IsKnownFieldName(name string) bool {
	return knownFieldNames[FieldName(name)]
}

type FieldSource string

const (
	FieldSourceExtracted FieldSource = "extracted"
	FieldSourceManual    FieldSource = "manual"
)

// ExtractedField is a single reading with its provenance. Confidence is in
// [0,1]; manual entries always carry 1.0.
type ExtractedField struct {
	Name        FieldName   `json:"name" bson:"name"`
	Value       float64     `json:"value" bson:"value"`
	Unit        string      `json:"unit,omitempty" bson:"unit,omitempty"`
	Confidence  float64     `json:"confidence" bson:"confidence"`
	Source      FieldSource `json:"source" bson:"source"`
	AssumedUnit bool        `json:"assumedUnit,omitempty" bson:"assumedUnit,omitempty"`
	RawText     string      `json:"rawText,omitempty" bson:"rawText,omitempty"`
}

// FieldSet holds at most one value per canonical field.
type FieldSet map[FieldName]ExtractedField

func (fs FieldSet) Has(name FieldName) bool {
	_, ok := fs[name]
	return ok
}

func (fs FieldSet) Value(name FieldName) (float64, bool) {
	field, ok := fs[name]
	if !ok {
		return 0, false
	}
	return field.Value, true
}

// Put keeps the higher-confidence occurrence when the field already exists.
func (fs FieldSet) Put(field ExtractedField) {
	existing, ok := fs[field.Name]
	if ok && existing.Confidence >= field.Confidence {
		return
	}
	fs[field.Name] = field
}

// Override unconditionally replaces any existing occurrence.
func (fs FieldSet) Override(field ExtractedField) {
	fs[field.Name] = field
}

func (fs FieldSet) Names() []FieldName {
	names := make([]FieldName, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (fs FieldSet) Clone() FieldSet {
	clone := make(FieldSet, len(fs))
	for name, field := range fs {
		clone[name] = field
	}
	return clone
}

// CriticalFields are the readings that decide how useful an extraction is.
var CriticalFields = []FieldName{FieldAge, FieldCholesterol, FieldSystolicBP}

func (fs FieldSet) MissingCriticalFields() []FieldName {
	var missing []FieldName
	for _, name := range CriticalFields {
		if !fs.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// GradeCompleteness buckets a FieldSet by how many critical readings it is
// missing: none is excellent, one is good, two is minimal, all three is poor.
func (fs FieldSet) GradeCompleteness() CompletenessGrade {
	switch len(fs.MissingCriticalFields()) {
	case 0:
		return CompletenessExcellent
	case 1:
		return CompletenessGood
	case 2:
		return CompletenessMinimal
	default:
		return CompletenessPoor
	}
}
