// Package rendering builds the preview tree of a CV and writes it as a
// printable HTML page.
package rendering

import "fmt"

// Stage names the step of page rendering that failed.
type Stage string

const (
	StageSettings Stage = "settings"
	StageParse    Stage = "parse"
	StageExecute  Stage = "execute"
)

// RenderError reports why a CV page could not be produced.
type RenderError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cv page %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("cv page %s: %s", e.Stage, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
