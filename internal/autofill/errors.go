package autofill

import (
	"errors"
	"fmt"

	"resume-builder/internal/extract"
)

var (
	// ErrNotPDF rejects uploads that are not PDFs.
	ErrNotPDF = extract.ErrNotPDF
	// ErrBusy is returned when a run is already in progress.
	ErrBusy = errors.New("autofill already running")
	// ErrEmptyFile rejects an empty upload.
	ErrEmptyFile = errors.New("file is empty")
)

// ParseError means the AI answer could not be read as a resume patch. Raw
// and Text are kept for diagnostics.
type ParseError struct {
	Raw  string
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to understand AI response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StageError wraps a failure in a named stage.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("autofill %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
