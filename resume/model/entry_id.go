package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EntryID identifies an experience or education entry within a document.
// Templates authored by hand sometimes carry numeric ids, so both JSON
// strings and numbers decode into it.
type EntryID string

// NewEntryID returns a fresh identifier that is never reused.
func NewEntryID() EntryID {
	return EntryID(uuid.NewString())
}

// UnmarshalJSON accepts a string, a number or null.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = EntryID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("entry id must be a string or number: %w", err)
	}
	*id = EntryID(n.String())
	return nil
}

func (id EntryID) String() string {
	return string(id)
}
