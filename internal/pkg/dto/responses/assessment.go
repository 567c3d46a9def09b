package responses

type AppliedBaseline struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

type RiskResult struct {
	Category         string            `json:"category"`
	Probability      float64           `json:"probability"`
	ModelVersion     string            `json:"model_version"`
	AppliedBaselines []AppliedBaseline `json:"applied_baselines,omitempty"`
}

type FieldIssue struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type AssessmentFailure struct {
	Stage         string       `json:"stage"`
	Message       string       `json:"message"`
	MissingFields []string     `json:"missing_fields,omitempty"`
	InvalidFields []FieldIssue `json:"invalid_fields,omitempty"`
}

type Assessment struct {
	AssessmentID    string             `json:"assessment_id"`
	State           string             `json:"state"`
	DocumentIDs     []string           `json:"document_ids,omitempty"`
	Inputs          []ExtractedField   `json:"inputs"`
	Result          *RiskResult        `json:"result,omitempty"`
	Failure         *AssessmentFailure `json:"failure,omitempty"`
	Insights        []string           `json:"insights,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	CreatedAt       string             `json:"created_at"`
}
