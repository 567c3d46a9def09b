package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Document-related messages
	UploadDocumentSuccessMessage  = "document accepted for extraction"
	GetDocumentSuccessMessage     = "get document successfully"
	GetExtractionSuccessMessage   = "get extraction result successfully"
	DeleteDocumentSuccessMessage  = "document deleted successfully"
	ListDocumentsSuccessMessage   = "get documents successfully"
	ReplayExtractionQueuedMessage = "extraction re-queued for document"

	// Assessment-related messages
	CreateAssessmentSuccessMessage = "assessment completed successfully"
	GetAssessmentSuccessMessage    = "get assessment successfully"
	ListAssessmentsSuccessMessage  = "get assessments successfully"

	// Health messages
	HealthCheckSuccessMessage = "service healthy"
)
