package templates

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ValidationError.
var (
	ErrInvalidName   = errors.New("invalid template name")
	ErrDuplicateName = errors.New("duplicate template name")
)

// ValidationError rejects a template name. Message is suitable for showing
// to the user; Cause is ErrInvalidName or ErrDuplicateName.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
