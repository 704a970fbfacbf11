package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrScopeMismatch       = NewDomainError("SCOPE_MISMATCH", "Entity references cross tenant, session or class boundaries")
	ErrImmutableRecord     = NewDomainError("IMMUTABLE_RECORD", "Financial records cannot be modified after creation")
	ErrAlreadyReversed     = NewDomainError("ALREADY_REVERSED", "Record has already been reversed")
	ErrStructureLocked     = NewDomainError("STRUCTURE_LOCKED", "Fee structure is locked once student obligations exist")
	ErrNothingOutstanding  = NewDomainError("NOTHING_OUTSTANDING", "No outstanding balance to carry forward")
)
