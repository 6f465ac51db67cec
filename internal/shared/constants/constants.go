package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization  = "Authorization"
	HeaderXRequestID     = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// User status
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"

	// Casbin resources and actions guarding administrative routes
	ResourceSchema    = "schema"
	ResourceTicket    = "ticket"
	ResourceDirectory = "directory"
	ActionPublish     = "publish"
	ActionManage      = "manage"

	// Default administrator role slug
	DefaultAdminRole = "admin"

	// Ticket title limit in runes
	MaxTicketTitleLength = 200
	// Review comment limit in runes
	MaxReviewCommentLength = 2000
)
