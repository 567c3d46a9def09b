package constvars

const (
	URLParamDocumentID   = "document_id"
	URLParamAssessmentID = "assessment_id"
)

const (
	URLQueryParamPage     = "page"
	URLQueryParamPageSize = "page_size"
	URLQueryParamState    = "state"
	URLQueryParamRisk     = "risk"
)
