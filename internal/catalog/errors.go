package catalog

import "errors"

var (
	// ErrNotFound is returned when a template id is unknown.
	ErrNotFound = errors.New("template not found")
	// ErrInvalidInput is returned when a create request lacks a title.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTemplateInvalid is returned when a selected template has unreadable data.
	ErrTemplateInvalid = errors.New("template data invalid")
)
