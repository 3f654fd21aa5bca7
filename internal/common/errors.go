package common

import "fmt"

// ValidationError reports caller input that fails a structural or business
// rule. Field identifies the offending field or item index.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StateError reports an operation requested against an order in an
// incompatible lifecycle state.
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// ProvisioningError reports that the fallback product-creation path failed
// for the named product reference.
type ProvisioningError struct {
	ProductID int64
	Err       error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("Could not create product %d. Please try again.", e.ProductID)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
