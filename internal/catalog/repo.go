package catalog

import "context"

// TemplatesRepo defines persistence operations for templates.
type TemplatesRepo interface {
	Create(ctx context.Context, t Template) error
	GetByID(ctx context.Context, id string) (Template, error)
	// List returns every template ordered by title ascending.
	List(ctx context.Context) ([]Template, error)
}
