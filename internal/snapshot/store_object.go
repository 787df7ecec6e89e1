package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"

	"resume-builder/internal/shared/storage/object"
)

// ObjectStore keeps each snapshot as one object in a local directory or an
// S3 bucket.
type ObjectStore struct {
	objects object.ObjectStore
}

// NewObjectStore wraps an object store.
func NewObjectStore(objects object.ObjectStore) *ObjectStore {
	return &ObjectStore{objects: objects}
}

func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.objects.Open(ctx, key+".json")
	if errors.Is(err, object.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *ObjectStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.objects.Put(ctx, key+".json", "application/json", bytes.NewReader(value))
	return err
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	return s.objects.Delete(ctx, key+".json")
}
