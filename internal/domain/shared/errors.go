package shared

import "errors"

// DomainError is a billing rule violation with a stable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// CodeOf returns the code of the first DomainError in err's chain, or ""
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "No such line or customer")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Line or contract kind already registered")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Not allowed in the current billing period")
)
