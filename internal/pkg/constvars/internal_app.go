package constvars

type ContextKey string

const (
	ResourceDocuments   = "documents"
	ResourceAssessments = "assessments"
	ResourceHealth      = "health"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IDENTITY_KEY             ContextKey = "identity"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "HSHLD_SVC_"
)

const (
	HeartShieldRoleUser       = "User"
	HeartShieldRoleSuperadmin = "Superadmin"
)
