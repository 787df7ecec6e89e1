// Package catalog serves the named starting documents a session can load.
// Templates are stored as a title plus an opaque JSON blob; a blob that does
// not decode as a resume surfaces as a degraded entry instead of failing the
// whole listing.
package catalog

import (
	"time"

	"resume-builder/resume/model"
)

// InvalidSuffix marks the title of a template whose data could not be read.
const InvalidSuffix = " (Error: Invalid Data)"

// Template is a stored catalog row.
type Template struct {
	ID        string
	Title     string
	Data      string
	CreatedBy string
	CreatedAt time.Time
}

// Entry is the host-facing view of a template. Data is nil for a degraded
// entry.
type Entry struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Data  *model.Document `json:"data"`
}

// Degraded reports whether the template's data failed to decode.
func (e Entry) Degraded() bool {
	return e.Data == nil
}
