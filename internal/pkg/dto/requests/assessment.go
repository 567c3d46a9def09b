package requests

// ManualReading is a user-entered value for one canonical field. Manual
// readings override extracted values for the same field. Value is a pointer
// so a legitimate zero reading (sex, exercise_angina, st_depression) passes
// the presence check.
type ManualReading struct {
	Name  string   `json:"name" validate:"required,field_name"`
	Value *float64 `json:"value" validate:"required"`
	Unit  string   `json:"unit,omitempty" validate:"omitempty,max=16"`
}

type CreateAssessment struct {
	DocumentIDs []string        `json:"document_ids,omitempty" validate:"omitempty,max=5,dive,len=24"`
	Readings    []ManualReading `json:"readings,omitempty" validate:"omitempty,max=32,dive"`
	SubjectRef  string          `validate:"required"`
}

type FindAssessmentByID struct {
	AssessmentID string `validate:"required"`
	SubjectRef   string `validate:"required"`
}

type FindAllAssessments struct {
	SubjectRef string `validate:"required"`
	Risk       string `validate:"omitempty,oneof=low moderate high"`
	Pagination
}
