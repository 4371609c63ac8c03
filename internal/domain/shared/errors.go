package shared

// DomainError is the error type every business-rule violation surfaces as.
// Code is a stable machine-readable identifier ("LOAN_NOT_FOUND",
// "EXCEEDS_AMOUNT_DUE", ...) that the HTTP layer maps to a status code;
// Message is what operators see.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError with the given code and message.
// Domain packages wrap this in their own constructors so codes stay in
// one place per package.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinels shared across domains. Repositories return ErrNotFound and
// ErrConcurrencyConflict; the partner ledger returns ErrInsufficientCapital
// when a withdrawal or expense would overdraw contributed capital.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficientCapital = NewDomainError("INSUFFICIENT_CAPITAL", "Insufficient capital available")
)
