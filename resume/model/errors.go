package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSection is returned when a section key is outside the closed set.
	ErrUnknownSection = errors.New("unknown section")
	// ErrInvalidValue is returned when a section value has the wrong shape.
	ErrInvalidValue = errors.New("invalid section value")
	// ErrInvalidDocument is returned when a stored or received document fails structural validation.
	ErrInvalidDocument = errors.New("invalid resume document")
	// ErrInvalidPatch is returned when AI output cannot be read as a patch.
	ErrInvalidPatch = errors.New("invalid resume patch")
)

func unknownSection(key SectionKey) error {
	return fmt.Errorf("%w: %q", ErrUnknownSection, string(key))
}
