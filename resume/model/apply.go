package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Apply returns a copy of doc with the section identified by key replaced by
// the JSON-encoded value. Every other section is carried over unchanged.
func Apply(doc Document, key SectionKey, value json.RawMessage) (Document, error) {
	if !key.Valid() {
		return doc, unknownSection(key)
	}
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return doc, fmt.Errorf("%w: %s: empty value", ErrInvalidValue, key)
	}

	switch key {
	case SectionPersonalInfo:
		var p PersonalInfo
		if err := decodeSection(key, value, &p); err != nil {
			return doc, err
		}
		return doc.WithPersonalInfo(p), nil
	case SectionSummary:
		var s string
		if err := decodeSection(key, value, &s); err != nil {
			return doc, err
		}
		return doc.WithSummary(s), nil
	case SectionExperience:
		var list []Experience
		if err := decodeSection(key, value, &list); err != nil {
			return doc, err
		}
		return doc.WithExperience(ensureExperienceIDs(list, NewEntryID)), nil
	case SectionEducation:
		var list []Education
		if err := decodeSection(key, value, &list); err != nil {
			return doc, err
		}
		return doc.WithEducation(ensureEducationIDs(list, NewEntryID)), nil
	case SectionSkills:
		var skills []string
		if err := decodeSection(key, value, &skills); err != nil {
			return doc, err
		}
		return doc.WithSkills(UnionSkills(nil, skills)), nil
	default:
		return doc, unknownSection(key)
	}
}

func decodeSection(key SectionKey, raw json.RawMessage, dst any) error {
	if bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("%w: %s: null", ErrInvalidValue, key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, key, err)
	}
	return nil
}

// Reorder moves the section at position from to position to within the
// effective order. Equal or out-of-range indices leave doc untouched, which
// is also how a cancelled drag is reported.
func Reorder(doc Document, from, to int) Document {
	order := doc.Order()
	if from == to || from < 0 || to < 0 || from >= len(order) || to >= len(order) {
		return doc
	}
	moved := order[from]
	next := make([]SectionKey, 0, len(order))
	next = append(next, order[:from]...)
	next = append(next, order[from+1:]...)
	next = append(next[:to], append([]SectionKey{moved}, next[to:]...)...)
	doc.SectionsOrder = next
	return doc
}
