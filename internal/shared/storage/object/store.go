package object

import (
	"context"
	"errors"
	"io"
	"path"

	"resume-builder/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects
// at caller-chosen keys.
type ObjectStore interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// UserKey namespaces name under a hash of the principal.
func UserKey(principal, name string) string {
	return path.Join(util.HashUserKey(principal), name)
}
