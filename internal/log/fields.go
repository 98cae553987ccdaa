package log

// Common field names for structured logging.
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldUserAgent    = "user_agent"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldUserID       = "user_id"
	FieldSubscription = "subscription_id"
	FieldName         = "name"
	FieldCost         = "cost"
	FieldCycle        = "billing_cycle"
	FieldCategory     = "category"
	FieldSavings      = "monthly_savings"
	FieldEntryID      = "entry_id"
	FieldBackend      = "backend"
	FieldExportRef    = "export_ref"
)

// Components defines standard component names.
const (
	ComponentApp          = "app"
	ComponentHTTP         = "http"
	ComponentSubscription = "subscription"
	ComponentStore        = "store"
	ComponentAMQP         = "amqp"
	ComponentWorker       = "worker"
	ComponentExport       = "export"
	ComponentSession      = "session"
	ComponentRateLimit    = "rate_limit"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpCancel   = "cancel"
	OpExport   = "export"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
