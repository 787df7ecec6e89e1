// Package snapshot keeps a time-boxed copy of each principal's working
// document so an interrupted session can be recovered. Only the latest
// document survives; anything expired or malformed is discarded on load.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
	"resume-builder/resume/model"
)

const (
	// Key is the fixed name the snapshot is stored under.
	Key = "aiResumeDataWithExpiry"
	// Expiry is how long a snapshot stays loadable.
	Expiry = 2 * time.Hour
)

// ErrNotFound is returned by a Store when the key holds nothing.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the stored value. Timestamp is in Unix milliseconds.
type Snapshot struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Store is a byte-oriented key/value backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Cache saves and loads snapshots for principals.
type Cache struct {
	store  Store
	now    func() time.Time
	expiry time.Duration
}

// NewCache creates a cache over store. A nil now uses time.Now.
func NewCache(store Store, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{store: store, now: now, expiry: Expiry}
}

// StorageKey is the backend key for principal's snapshot.
func StorageKey(principal string) string {
	return util.HashUserKey(principal) + "/" + Key
}

// Save overwrites principal's snapshot with doc stamped now.
func (c *Cache) Save(ctx context.Context, principal string, doc model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	value, err := json.Marshal(Snapshot{Timestamp: c.now().UnixMilli(), Data: data})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.store.Put(ctx, StorageKey(principal), value); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Load returns principal's snapshot. It reports false, and clears the stored
// value, when nothing usable is stored.
func (c *Cache) Load(ctx context.Context, principal string) (model.Document, bool, error) {
	key := StorageKey(principal)
	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return model.Document{}, false, nil
	}
	if err != nil {
		return model.Document{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil || snap.Timestamp <= 0 || len(snap.Data) == 0 {
		return model.Document{}, false, c.discard(ctx, key, "malformed")
	}
	age := c.now().Sub(time.UnixMilli(snap.Timestamp))
	if age > c.expiry {
		return model.Document{}, false, c.discard(ctx, key, "expired")
	}
	doc, err := model.DecodeDocument(snap.Data)
	if err != nil {
		return model.Document{}, false, c.discard(ctx, key, "invalid_document")
	}
	return doc, true, nil
}

// Clear removes principal's snapshot.
func (c *Cache) Clear(ctx context.Context, principal string) error {
	return c.store.Delete(ctx, StorageKey(principal))
}

func (c *Cache) discard(ctx context.Context, key, reason string) error {
	telemetry.Info("snapshot.discarded", map[string]any{"reason": reason})
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
