package models

// AssessmentState is the lifecycle position of one assessment run.
// Transitions only move forward: collecting, validating, classifying, then
// either complete or failed. A failed assessment is never retried in place.
type AssessmentState string

const (
	AssessmentStateCollecting  AssessmentState = "collecting"
	AssessmentStateValidating  AssessmentState = "validating"
	AssessmentStateClassifying AssessmentState = "classifying"
	AssessmentStateComplete    AssessmentState = "complete"
	AssessmentStateFailed      AssessmentState = "failed"
)

func (s AssessmentState) Terminal() bool {
	return s == AssessmentStateComplete || s == AssessmentStateFailed
}

type RiskCategory string

const (
	RiskCategoryLow      RiskCategory = "low"
	RiskCategoryModerate RiskCategory = "moderate"
	RiskCategoryHigh     RiskCategory = "high"
)

// AppliedBaseline records a model feature the caller did not supply and the
// artifact-declared value that stood in for it.
type AppliedBaseline struct {
	Feature string  `json:"feature" bson:"feature"`
	Value   float64 `json:"value" bson:"value"`
}

type RiskResult struct {
	Category         RiskCategory      `json:"category" bson:"category"`
	Probability      float64           `json:"probability" bson:"probability"`
	ModelVersion     string            `json:"modelVersion" bson:"modelVersion"`
	AppliedBaselines []AppliedBaseline `json:"appliedBaselines,omitempty" bson:"appliedBaselines,omitempty"`
}

// FieldIssue names a reading that failed validation and why.
type FieldIssue struct {
	Name   FieldName `json:"name" bson:"name"`
	Reason string    `json:"reason" bson:"reason"`
}

// AssessmentFailure captures why a run ended in the failed state. Missing
// and Invalid are machine-readable so the client can prompt for exactly the
// offending readings.
type AssessmentFailure struct {
	Stage   AssessmentState `json:"stage" bson:"stage"`
	Message string          `json:"message" bson:"message"`
	Missing []FieldName     `json:"missingFields,omitempty" bson:"missingFields,omitempty"`
	Invalid []FieldIssue    `json:"invalidFields,omitempty" bson:"invalidFields,omitempty"`
}

// RiskAssessment is immutable once its state is terminal. New runs for the
// same subject supersede older ones; history is kept for trends.
type RiskAssessment struct {
	ID              string             `bson:"_id,omitempty"`
	SubjectRef      string             `bson:"subjectRef"`
	DocumentIDs     []string           `bson:"documentIds,omitempty"`
	State           AssessmentState    `bson:"state"`
	Inputs          FieldSet           `bson:"inputs"`
	Result          *RiskResult        `bson:"result,omitempty"`
	Failure         *AssessmentFailure `bson:"failure,omitempty"`
	Insights        []string           `bson:"insights,omitempty"`
	Recommendations []string           `bson:"recommendations,omitempty"`
	TimeModel       `bson:",inline"`
}
