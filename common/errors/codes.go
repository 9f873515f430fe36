package errors

const (
	// Generic codes
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeConflict               = "CONFLICT"
	CodeInternalServer         = "INTERNAL_SERVER"
	CodeServiceUnavailable     = "SERVICE_UNAVAILABLE"
	CodeEventPublishError      = "EVENT_PUBLISH_ERROR"
	CodeEventSubscribtionError = "EVENT_SUBSCRIPTION_ERROR"
	CodeObjectMarshalError     = "OBJECT_MARSHALL_ERROR"
	CodeObjectUnmarshalError   = "OBJECT_UNMARSHALL_ERROR"
	CodeDatabaseError          = "DATABASE_ERROR"
	CodeTransactionError       = "TRANSACTION_ERROR"
	CodeRedisOperationError    = "REDIS_ERROR"

	// Arrangement codes
	CodeIncompletePanel    = "INCOMPLETE_PANEL"
	CodeDuplicateAssessor  = "DUPLICATE_ASSESSOR"
	CodeMissingVenue       = "MISSING_VENUE"
	CodeInvalidTimer       = "INVALID_TIMER"
	CodeLifecycleViolation = "LIFECYCLE_VIOLATION"
	CodePreconditionFailed = "PRECONDITION_FAILED"
	CodeTransientFetch     = "TRANSIENT_FETCH"
)

// Category groups codes the way the operator UI reacts to them.
type Category string

const (
	CategoryValidation         Category = "ValidationError"
	CategoryNotFound           Category = "NotFoundError"
	CategoryTransientFetch     Category = "TransientFetchError"
	CategoryLifecycleViolation Category = "LifecycleViolation"
	CategoryConflict           Category = "ConflictError"
	CategoryInternal           Category = "InternalError"
)

var codeCategories = map[string]Category{
	CodeInvalidInput:       CategoryValidation,
	CodeIncompletePanel:    CategoryValidation,
	CodeDuplicateAssessor:  CategoryValidation,
	CodeMissingVenue:       CategoryValidation,
	CodeInvalidTimer:       CategoryValidation,
	CodeNotFound:           CategoryNotFound,
	CodePreconditionFailed: CategoryNotFound,
	CodeTransientFetch:     CategoryTransientFetch,
	CodeLifecycleViolation: CategoryLifecycleViolation,
	CodeConflict:           CategoryConflict,
	CodeAlreadyExists:      CategoryConflict,
}
