package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingDataKey           = "data"
	LoggingQueryParamsKey    = "query_params"
	LoggingResponseKey       = "response"
	LoggingRequestKey        = "request"
	LoggingResponseLengthKey = "response_length"

	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingRemoteAddrKey = "remote_addr"
	LoggingUserAgentKey  = "user_agent"
	LoggingQueryKey      = "query"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingSuccessKey    = "success"

	LoggingDocumentIDKey   = "document_id"
	LoggingAssessmentIDKey = "assessment_id"
	LoggingJobIDKey        = "job_id"
	LoggingUploaderRefKey  = "uploader_ref"
	LoggingStateKey        = "state"
	LoggingDocumentTypeKey = "document_type"
	LoggingFieldNameKey    = "field_name"
	LoggingModelVersionKey = "model_version"
	LoggingQueueKey        = "queue"
	LoggingAttemptKey      = "attempt"
	LoggingElapsedKey      = "elapsed"

	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
)
