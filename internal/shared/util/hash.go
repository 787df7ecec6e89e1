package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey returns a storage-safe identifier for a principal ID. Object
// keys and cache keys never carry the raw ID.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
