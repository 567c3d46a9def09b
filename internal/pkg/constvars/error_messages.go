package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":         "is required",
	"numeric":          "must be a number",
	"min":              "must be at least %s",
	"max":              "must be at most %s",
	"len":              "must be %s characters long",
	"oneof":            "must be one of [%s]",
	"gt":               "must be greater than %s",
	"gte":              "must be greater than or equal to %s",
	"lt":               "must be less than %s",
	"lte":              "must be less than or equal to %s",
	"url":              "must be a valid URL",
	"uuid":             "must be a valid UUID",
	"required_without": "is required when %s is not present",
	"field_name":       "must be a known medical field name",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":              true,
	"max":              true,
	"len":              true,
	"gt":               true,
	"gte":              true,
	"lt":               true,
	"lte":              true,
	"oneof":            true,
	"required_without": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientInvalidImageFormat            = "the image you uploaded does not meet the specified standards"
	ErrClientDocumentNotFound              = "we could not find the requested document"
	ErrClientAssessmentNotFound            = "we could not find the requested assessment"
	ErrClientExtractionNotReady            = "the document is still being processed, try again shortly"
	ErrClientMissingRequiredFields         = "some required health readings are missing or invalid"
	ErrClientDocumentNotMedical            = "the uploaded image does not look like a medical document"
	ErrClientUploadLimitExceeded           = "too many uploads, please wait before trying again"
)

// Error messages for developers
const (
	ErrDevInvalidInput             = "invalid input"
	ErrDevCannotParseJSON          = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON        = "cannot convert struct or other data types to JSON"
	ErrDevInvalidFormat            = "invalid %s format"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form body"
	ErrDevDocumentNotFound         = "document not found"
	ErrDevUnauthorized             = "unauthorized access"

	// Validation messages
	ErrDevValidationFailed           = "validation failed"
	ErrDevImageValidationFailed      = "image validation failed"
	ErrDevInvalidRequestPayload      = "invalid request payload"
	ErrDevMissingRequiredFields      = "missing required fields"
	ErrDevURLParamIDValidationFailed = "parameter %s validation failed"

	// Identity messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "invalid or expired token"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthPermissionDenied      = "permission denied"

	// Extraction messages
	ErrDevExtractionRecognizerFailed   = "text recognizer failed on document image"
	ErrDevExtractionUnreadableDocument = "document image produced no usable text"
	ErrDevExtractionNotMedical         = "document text does not pass the medical content gate"
	ErrDevExtractionJobTimedOut        = "extraction job exceeded its deadline"
	ErrDevExtractionJobNotFound        = "extraction job not found"

	// Classifier messages
	ErrDevClassifierModelLoad       = "failed to load model artifact from %s"
	ErrDevClassifierModelInvalid    = "model artifact is malformed or incomplete"
	ErrDevClassifierInputIncomplete = "classifier invoked without the complete required feature set"
	ErrDevClassifierInputOutOfRange = "classifier invoked with a feature outside its declared domain"

	// Assessment messages
	ErrDevAssessmentNotFound         = "assessment not found"
	ErrDevAssessmentInvalidState     = "assessment is not in a state that allows this operation"
	ErrDevAssessmentAlreadyComplete  = "assessment already reached a terminal state"
	ErrDevAssessmentMissingReadings  = "assessment readings missing or out of range"
	ErrDevAssessmentDocumentNotReady = "referenced document has no finished extraction"

	// Database messages
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToDeleteDocument   = "failed when do delete document on database"
	ErrDevDBFailedToIterateDocuments = "failed when iterating documents from database"
	ErrDevDBConnectionFailed         = "failed to connect to database"
	ErrDevDBStringNotObjectID        = "given ID is not valid object ID"

	// Minio messages
	ErrDevMinioFailedToCreateObject          = "failed to create object into minio storage with bucket name '%s'"
	ErrDevMinioFailedToGetObject             = "failed to get object from minio storage with bucket name '%s'"
	ErrDevMinioFailedToGetObjectPresignedURL = "failed to get object URL from minio storage with bucket name '%s'"

	// Redis messages
	ErrDevRedisSetData       = "failed to SET data into redis"
	ErrDevRedisGetData       = "failed to GET data from redis"
	ErrDevRedisGetNoData     = "failed to GET data from redis, there is no data associated with key %s"
	ErrDevRedisDeleteData    = "failed to DELETE data from redis"
	ErrDevRedisIncrementData = "failed to INCR data in redis"
	ErrDevRedisUnlock        = "failed to release redis lock"

	// Queue messages
	ErrDevQueuePublishFailed = "failed to publish message to queue %s"
	ErrDevQueueConsumeFailed = "failed to start consumer on queue %s"
	ErrDevQueueDeclareFailed = "failed to declare queue topology for %s"

	// Server messages
	ErrDevMissingRequestID       = "request ID not found in request context"
	ErrDevServerInternalError    = "internal server error"
	ErrDevServerBadRequest       = "bad request"
	ErrDevServerNotFound         = "resource not found"
	ErrDevServerDeadlineExceeded = "deadline exceeded"

	// File handling messages
	ErrDevFileUploadFailed = "file upload failed"
	ErrDevFileNotFound     = "file not found"
	ErrDevFileInvalidType  = "invalid file type"
	ErrDevFileTooLarge     = "file exceeds the maximum allowed size"

	// Miscellaneous messages
	ErrDevActionNotAllowed     = "action not allowed"
	ErrDevServiceUnavailable   = "service temporarily unavailable"
	ErrDevOperationTimedOut    = "operation timed out"
	ErrDevRequestLimitExceeded = "request limit exceeded"
)

const (
	ErrFileLocationUnknown = "file location unknown"
	ErrLineLocationUnknown = "line location unknown"
	ErrFunctionNameUnknown = "function name unknown"
)

const (
	ErrEnvParsing     = "Error parsing %s: %v, will use default value"
	ErrEnvKeyNotExist = "Error getting env key: %s, will use default value"
)
