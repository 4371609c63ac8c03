package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeDuplicateRequest is used when an Idempotency-Key is replayed
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientCapital is used when a partner withdrawal exceeds the
	// available balance
	ErrCodeInsufficientCapital = "ERR_INSUFFICIENT_CAPITAL"
	// ErrCodeLoanHasPayments is used when deleting a loan with recorded payments
	ErrCodeLoanHasPayments = "ERR_LOAN_HAS_PAYMENTS"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientCapital: http.StatusUnprocessableEntity,
	ErrCodeLoanHasPayments:     http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// ERR_-prefixed transport codes. Domain code stays domain-specific; the
// transport layer owns the HTTP vocabulary.
var DomainErrorCodeMapping = map[string]string{
	// Not-found family -> 404
	"NOT_FOUND":             ErrCodeNotFound,
	"CLIENT_NOT_FOUND":      ErrCodeNotFound,
	"LOAN_NOT_FOUND":        ErrCodeNotFound,
	"RECEIPT_NOT_FOUND":     ErrCodeNotFound,
	"PARTNER_NOT_FOUND":     ErrCodeNotFound,
	"EXPENSE_NOT_FOUND":     ErrCodeNotFound,
	"INSTALLMENT_NOT_FOUND": ErrCodeNotFound,

	// Conflict family -> 409
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"DUPLICATE_DOCUMENT":   ErrCodeAlreadyExists,
	"DUPLICATE_REQUEST":    ErrCodeDuplicateRequest,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	// Input family -> 400
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_AMOUNT":            ErrCodeInvalidInput,
	"INVALID_PAYMENT_SPLIT":     ErrCodeInvalidInput,
	"INVALID_PRINCIPAL":         ErrCodeInvalidInput,
	"INVALID_RATE":              ErrCodeInvalidInput,
	"INVALID_INSTALLMENT_COUNT": ErrCodeInvalidInput,
	"INVALID_FREQUENCY":         ErrCodeInvalidInput,
	"INVALID_START_DATE":        ErrCodeInvalidInput,
	"INVALID_CLIENT":            ErrCodeInvalidInput,
	"INVALID_LOAN":              ErrCodeInvalidInput,
	"INVALID_LOAN_NUMBER":       ErrCodeInvalidInput,
	"INVALID_RECEIPT_NUMBER":    ErrCodeInvalidInput,
	"INVALID_EXPENSE_NUMBER":    ErrCodeInvalidInput,
	"INVALID_NAME":              ErrCodeInvalidInput,
	"INVALID_DOCUMENT":          ErrCodeInvalidInput,
	"INVALID_CATEGORY":          ErrCodeInvalidInput,
	"INVALID_PAYMENT_METHOD":    ErrCodeInvalidInput,
	"INVALID_DESCRIPTION":       ErrCodeInvalidInput,
	"INVALID_REASON":            ErrCodeInvalidInput,

	// Business rule family -> 422
	"INVALID_STATE":          ErrCodeInvalidState,
	"INVALID_LOAN_STATUS":    ErrCodeInvalidState,
	"INVALID_RECEIPT_STATUS": ErrCodeInvalidState,
	"CLIENT_INACTIVE":        ErrCodeInvalidState,
	"LOAN_CLIENT_MISMATCH":   ErrCodeBusinessRule,
	"EXCEEDS_AMOUNT_DUE":     ErrCodeBusinessRule,
	"EXCEEDS_AMOUNT_PAID":    ErrCodeBusinessRule,
	"EXCEEDS_RECEIPT_TOTAL":  ErrCodeBusinessRule,
	"INSUFFICIENT_CAPITAL":   ErrCodeInsufficientCapital,
	"LOAN_HAS_PAYMENTS":      ErrCodeLoanHasPayments,

	// Auth family
	"UNAUTHORIZED": ErrCodeUnauthorized,
	"FORBIDDEN":    ErrCodeForbidden,
}

// NormalizeErrorCode converts a domain error code to the standardized
// transport format. If the code is already in the new format or unknown,
// returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
