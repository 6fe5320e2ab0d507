package editor

import (
	"fmt"

	"github.com/jonathan/cv-maker/internal/types"
)

// SectionTypeError rejects replacing a section's data with a different variant.
type SectionTypeError struct {
	SectionID string
	Want      types.SectionType
	Got       types.SectionType
}

func (e *SectionTypeError) Error() string {
	return fmt.Sprintf("section %q is %s, cannot replace with %s", e.SectionID, e.Want, e.Got)
}

// ContentError rejects section content the editing surface does not allow.
type ContentError struct {
	Message string
	Cause   error
}

func (e *ContentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("content error: %s", e.Message)
}

func (e *ContentError) Unwrap() error {
	return e.Cause
}
