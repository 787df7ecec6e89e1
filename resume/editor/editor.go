// Package editor implements the per-section edit operations. Every function
// takes the current document and returns a new one; the input is never
// modified.
package editor

import (
	"context"
	"errors"
)

var (
	// ErrInvalidInput is returned for rejected field values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownField is returned when a field name is not editable.
	ErrUnknownField = errors.New("unknown field")
	// ErrEntryNotFound is returned when an entry id is not in the section.
	ErrEntryNotFound = errors.New("entry not found")
)

// Suggester produces free-text AI suggestions.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}
